package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalDefaults(t *testing.T) {
	conf := Global()
	assert.Equal(t, DriverPostgres, conf.Database.Driver)
	assert.Equal(t, "labmate.db", conf.Database.Path)
	assert.Equal(t, 8080, conf.Server.Port)
	assert.Equal(t, 9090, conf.Server.GrpcPort)
	assert.Equal(t, LLMNone, conf.LLM.Provider)
	assert.Equal(t, "https://pubchem.ncbi.nlm.nih.gov", conf.RPC.PubChem.Addr)
	assert.Equal(t, 24, conf.Auth.TokenExpireHours)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("WEB_PORT", "9999")
	t.Setenv("LLM_PROVIDER", "anthropic")

	v := viper.NewWithOptions(viper.ExperimentalBindStruct())
	v.AutomaticEnv()

	conf := &GlobalConfig{}
	require.NoError(t, v.Unmarshal(conf))
	assert.Equal(t, DriverSQLite, conf.Database.Driver)
	assert.Equal(t, 9999, conf.Server.Port)
	assert.Equal(t, LLMAnthropic, conf.LLM.Provider)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Global().Validate())

	tests := []struct {
		name   string
		mutate func(c *GlobalConfig)
		want   string
	}{
		{"driver", func(c *GlobalConfig) { c.Database.Driver = "mysql" }, `unsupported DATABASE_DRIVER "mysql"`},
		{"sqlite path", func(c *GlobalConfig) { c.Database.Driver, c.Database.Path = DriverSQLite, "" }, "DATABASE_PATH"},
		{"provider", func(c *GlobalConfig) { c.LLM.Provider = "gemini" }, `unsupported LLM_PROVIDER "gemini"`},
		{"secret", func(c *GlobalConfig) { c.Auth.JWTSecret = "" }, "JWT_SECRET"},
		{"ttl", func(c *GlobalConfig) { c.Auth.TokenExpireHours = 0 }, "TOKEN_EXPIRE_HOURS"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := *Global()
			tc.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
