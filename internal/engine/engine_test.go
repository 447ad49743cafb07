package engine_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-xor-breaker/internal/engine"
	"github.com/gcbaptista/go-xor-breaker/internal/errors"
	"github.com/gcbaptista/go-xor-breaker/internal/scoring"
	testutil "github.com/gcbaptista/go-xor-breaker/internal/testing"
	"github.com/gcbaptista/go-xor-breaker/internal/xorcipher"
	"github.com/gcbaptista/go-xor-breaker/model"
	"github.com/gcbaptista/go-xor-breaker/services"
)

func fixtureCiphertext(t *testing.T) []byte {
	t.Helper()
	key, err := xorcipher.ParseKey(testutil.FixtureKey)
	require.NoError(t, err)
	return xorcipher.Encrypt([]byte(testutil.FixturePlaintext), key)
}

func TestOpenMissingWordList(t *testing.T) {
	settings := testutil.TestSettings(t)
	settings.DictionaryPath = filepath.Join(t.TempDir(), "nope.txt")

	_, err := engine.Open(settings)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMissingInput)
	assert.Contains(t, err.Error(), "nope.txt")
}

func TestOpenInvalidSettings(t *testing.T) {
	settings := testutil.TestSettings(t)
	settings.Strategy = "chi-squared"

	_, err := engine.Open(settings)
	assert.Error(t, err)
}

func TestEngine_Crack(t *testing.T) {
	eng := testutil.CreateTestEngine(t, testutil.TestSettings(t))

	result, err := eng.Crack(context.Background(), fixtureCiphertext(t), "request", services.CrackOptions{})
	require.NoError(t, err)

	assert.Equal(t, [2]byte{'a', 'b'}, result.Key)
	assert.Equal(t, "ab", result.KeyText)
	assert.Equal(t, "6162", result.KeyHex)
	assert.Equal(t, []byte(testutil.FixturePlaintext), result.Plaintext)
	assert.Equal(t, testutil.FixturePlaintext, result.PlaintextText)
	assert.Equal(t, 66, result.Score)
	assert.Equal(t, scoring.StrategyCanonical, result.Strategy)
	assert.Equal(t, xorcipher.KeySpace, result.KeysExamined)
	assert.False(t, result.StoppedEarly)
	assert.Equal(t, "request", result.Source)
}

func TestEngine_CrackStrategyOverride(t *testing.T) {
	eng := testutil.CreateTestEngine(t, testutil.TestSettings(t))
	ct := fixtureCiphertext(t)

	result, err := eng.Crack(context.Background(), ct, "request", services.CrackOptions{Strategy: scoring.StrategyFast, Workers: 2})
	require.NoError(t, err)
	assert.Equal(t, "ab", result.KeyText)
	assert.Equal(t, 94, result.Score)
	assert.Equal(t, scoring.StrategyFast, result.Strategy)

	_, err = eng.Crack(context.Background(), ct, "request", services.CrackOptions{Strategy: "chi-squared"})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestEngine_CrackEarlyStop(t *testing.T) {
	eng := testutil.CreateTestEngine(t, testutil.TestSettings(t))
	stop := true
	threshold := 60

	result, err := eng.Crack(context.Background(), fixtureCiphertext(t), "request", services.CrackOptions{
		Workers:        1,
		EarlyStop:      &stop,
		EarlyStopScore: &threshold,
	})
	require.NoError(t, err)
	assert.True(t, result.StoppedEarly)
	assert.GreaterOrEqual(t, result.Score, threshold)
	assert.Less(t, result.KeysExamined, xorcipher.KeySpace)
}

func TestEngine_CrackEmptyCiphertext(t *testing.T) {
	eng := testutil.CreateTestEngine(t, testutil.TestSettings(t))

	result, err := eng.Crack(context.Background(), []byte{}, "empty", services.CrackOptions{})
	require.NoError(t, err)
	assert.Equal(t, [2]byte{0, 0}, result.Key)
	assert.Equal(t, "0000", result.KeyHex)
	assert.Empty(t, result.Plaintext)
	assert.Equal(t, scoring.EmptyScore, result.Score)
}

func TestEngine_CrackCancelled(t *testing.T) {
	eng := testutil.CreateTestEngine(t, testutil.TestSettings(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eng.Crack(ctx, fixtureCiphertext(t), "request", services.CrackOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_CrackFile(t *testing.T) {
	settings := testutil.TestSettings(t)
	eng := testutil.CreateTestEngine(t, settings)

	path := filepath.Join(t.TempDir(), "cipher.bin")
	require.NoError(t, os.WriteFile(path, fixtureCiphertext(t), 0o600))

	result, err := eng.CrackFile(context.Background(), path, services.CrackOptions{})
	require.NoError(t, err)
	assert.Equal(t, "ab", result.KeyText)
	assert.Equal(t, path, result.Source)

	reportPath, err := eng.ExportReport(result)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(settings.OutputDir, "cipher_cracked.txt"), reportPath)
	report, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(report), "Recovered key: ab\nScore: 66\n")
	assert.Contains(t, string(report), testutil.FixturePlaintext)

	missing := filepath.Join(t.TempDir(), "absent.bin")
	_, err = eng.CrackFile(context.Background(), missing, services.CrackOptions{})
	assert.ErrorIs(t, err, errors.ErrMissingInput)
	assert.Contains(t, err.Error(), missing)
}

func TestEngine_EncryptDecrypt(t *testing.T) {
	eng := testutil.CreateTestEngine(t, testutil.TestSettings(t))

	tests := []struct {
		name string
		key  xorcipher.Key
	}{
		{"ascii key", xorcipher.Key{'a', 'b'}},
		{"latin-1 key", xorcipher.Key{0xe9, '1'}},
		{"zero key", xorcipher.Key{0, 0}},
	}

	data := []byte("attack at dawn\x00\xff")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct := eng.Encrypt(data, tt.key)
			assert.Len(t, ct, len(data))
			assert.Equal(t, xorcipher.Transform(data, tt.key), ct)
			assert.Equal(t, data, eng.Decrypt(ct, tt.key))
		})
	}
}

func TestEngine_EncryptFile(t *testing.T) {
	settings := testutil.TestSettings(t)
	eng := testutil.CreateTestEngine(t, settings)
	key, err := xorcipher.ParseKey(testutil.FixtureKey)
	require.NoError(t, err)

	in := filepath.Join(t.TempDir(), "letter.txt")
	require.NoError(t, os.WriteFile(in, []byte(testutil.FixturePlaintext), 0o600))

	encPath, err := eng.EncryptFile(in, key)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(settings.OutputDir, "letter_encrypted.txt"), encPath)
	enc, err := os.ReadFile(encPath)
	require.NoError(t, err)
	assert.Equal(t, fixtureCiphertext(t), enc)

	decPath, err := eng.DecryptFile(encPath, key)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(settings.OutputDir, "letter_encrypted_decrypted.txt"), decPath)
	dec, err := os.ReadFile(decPath)
	require.NoError(t, err)
	assert.Equal(t, testutil.FixturePlaintext, string(dec))

	_, err = eng.EncryptFile(filepath.Join(t.TempDir(), "absent.txt"), key)
	assert.ErrorIs(t, err, errors.ErrMissingInput)
}

func TestEngine_CrackAsyncAndReload(t *testing.T) {
	settings := testutil.TestSettings(t)
	eng, err := engine.Open(settings)
	require.NoError(t, err)

	jobID, err := eng.CrackAsync(fixtureCiphertext(t), "upload.bin", services.CrackOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, jobID)

	job := testutil.WaitForJob(t, eng, jobID, testutil.DefaultJobPollingOptions())
	testutil.AssertJobCompleted(t, job, "upload.bin")
	require.NotNil(t, job.Progress)
	assert.Equal(t, 256, job.Progress.Current)
	assert.Equal(t, 256, job.Progress.Total)
	assert.Equal(t, "canonical", job.Metadata["strategy"])

	result, err := eng.GetResult(jobID)
	require.NoError(t, err)
	assert.Equal(t, jobID, result.ID)
	assert.Equal(t, "ab", result.KeyText)
	assert.Equal(t, 66, result.Score)

	searches := eng.GetJobMetrics().Searches
	assert.Equal(t, int64(1), searches.Count)
	assert.Equal(t, int64(xorcipher.KeySpace), searches.KeysExamined)
	assert.Equal(t, int64(1), searches.ByStrategy["canonical"])

	archive := filepath.Join(settings.DataDir, "results", jobID+".gob")
	assert.FileExists(t, archive)
	eng.Close()

	// A fresh engine on the same data directory serves the archived result
	reopened := testutil.CreateTestEngine(t, settings)
	again, err := reopened.GetResult(jobID)
	require.NoError(t, err)
	assert.Equal(t, result.KeyText, again.KeyText)
	assert.Equal(t, result.Plaintext, again.Plaintext)
	assert.Equal(t, result.Score, again.Score)
	assert.Len(t, reopened.ListResults(), 1)

	require.NoError(t, reopened.DeleteResult(jobID))
	assert.NoFileExists(t, archive)
	_, err = reopened.GetResult(jobID)
	assert.ErrorIs(t, err, errors.ErrJobNotFound)
}

func TestEngine_GetResultErrors(t *testing.T) {
	eng := testutil.CreateTestEngine(t, testutil.TestSettings(t))

	_, err := eng.GetResult("unknown")
	assert.ErrorIs(t, err, errors.ErrJobNotFound)

	assert.ErrorIs(t, eng.DeleteResult("unknown"), errors.ErrResultNotFound)
}

func TestEngine_CancelCrackJob(t *testing.T) {
	settings := testutil.TestSettings(t)
	settings.Workers = 1
	eng := testutil.CreateTestEngine(t, settings)

	big := make([]byte, 64*1024)
	for i := range big {
		big[i] = testutil.FixturePlaintext[i%len(testutil.FixturePlaintext)]
	}

	jobID, err := eng.CrackAsync(big, "big.bin", services.CrackOptions{})
	require.NoError(t, err)
	require.NoError(t, eng.CancelJob(jobID))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	job, err := eng.WaitJob(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusCancelled, job.Status)

	_, err = eng.GetResult(jobID)
	assert.ErrorIs(t, err, errors.ErrResultNotFound)
	assert.Equal(t, int64(1), eng.GetJobMetrics().JobsCancelled)
}
