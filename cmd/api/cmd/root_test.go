package cmd

import (
	"testing"

	"donationtracker/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["migrate"])
	assert.True(t, names["createuser"])

	sub, _, err := rootCmd.Find([]string{"migrate", "down"})
	require.NoError(t, err)
	assert.Equal(t, "down", sub.Name())
	assert.NotNil(t, sub.Flags().Lookup("steps"))
}

func TestValidateNewUser(t *testing.T) {
	saved := newUser
	t.Cleanup(func() { newUser = saved })

	newUser.username, newUser.password = "", "pw"
	assert.ErrorContains(t, validateNewUser(), "--username")

	newUser.username, newUser.password = "alice", ""
	assert.ErrorContains(t, validateNewUser(), "--password")

	newUser.username, newUser.password = "alice", "pw"
	assert.NoError(t, validateNewUser())
}

func TestMailerAndStorageConfig(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("EMAIL_PROVIDER", "smtp")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("STORAGE_PROVIDER", "s3")
	t.Setenv("S3_BUCKET", "posters")

	cfg, err := config.Load()
	require.NoError(t, err)

	mc := mailerConfig(cfg, nil)
	assert.Equal(t, "smtp", mc.Provider)
	assert.Equal(t, "smtp.example.com", mc.SMTP.Host)
	assert.Equal(t, 587, mc.SMTP.Port)

	sc := storageConfig(cfg)
	assert.Equal(t, "s3", sc.Provider)
	assert.Equal(t, "posters", sc.S3Bucket)
}
