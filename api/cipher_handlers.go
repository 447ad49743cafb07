package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-xor-breaker/internal/export"
	"github.com/gcbaptista/go-xor-breaker/internal/xorcipher"
)

// CipherRequest is the body of POST /encrypt and POST /decrypt. Data is
// base64; Text is a convenience for plain UTF-8 input and is used only when
// Data is empty. The key is either two characters (Key) or 4 hex digits
// (KeyHex), never both.
type CipherRequest struct {
	Data   []byte `json:"data"`
	Text   string `json:"text,omitempty"`
	Key    string `json:"key,omitempty"`
	KeyHex string `json:"key_hex,omitempty"`
}

// CipherResponse carries the transformed bytes (base64) and a display rendering.
type CipherResponse struct {
	Data   []byte `json:"data"`
	Text   string `json:"text"`
	KeyHex string `json:"key_hex"`
	Bytes  int    `json:"bytes"`
}

// EncryptHandler XORs the request data with the key
func (api *API) EncryptHandler(c *gin.Context) {
	api.handleCipher(c, api.engine.Encrypt)
}

// DecryptHandler reverses EncryptHandler
func (api *API) DecryptHandler(c *gin.Context) {
	api.handleCipher(c, api.engine.Decrypt)
}

func (api *API) handleCipher(c *gin.Context, apply func(data []byte, key xorcipher.Key) []byte) {
	var req CipherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	key, result := ValidateKeyInput(req.Key, req.KeyHex)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	data := req.Data
	if len(data) == 0 && req.Text != "" {
		data = []byte(req.Text)
	}

	out := apply(data, key)
	c.JSON(http.StatusOK, CipherResponse{
		Data:   out,
		Text:   export.DisplayText(out),
		KeyHex: key.Hex(),
		Bytes:  len(out),
	})
}
