package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, NewDefaultConfig().Validate())
	assert.NoError(t, NewTestConfig().Validate())
}

func TestValidate(t *testing.T) {
	conf := NewTestConfig()
	conf.Log.Level = "verbose"
	assert.Error(t, conf.Validate())

	conf = NewTestConfig()
	conf.Shell.Prompt = ""
	assert.Error(t, conf.Validate())

	conf = NewTestConfig()
	conf.Bench.Workers = 0
	assert.Error(t, conf.Validate())

	conf = NewTestConfig()
	conf.Bench.Keys = -1
	assert.Error(t, conf.Validate())
}

func TestLoadFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "nestkv-config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "nestkv.toml")
	content := `
status-addr = "127.0.0.1:9300"

[log]
level = "debug"

[shell]
prompt = "nestkv> "
confirm = false

[bench]
workers = 2

[storage.initial-data]
foo = "123"
bar = "456"
`
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0644))

	conf, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9300", conf.StatusAddr)
	assert.Equal(t, "debug", conf.Log.Level)
	assert.Equal(t, "nestkv> ", conf.Shell.Prompt)
	assert.False(t, conf.Shell.Confirm)
	assert.Equal(t, 2, conf.Bench.Workers)
	// Unset fields keep their defaults.
	assert.Equal(t, NewDefaultConfig().Bench.Iterations, conf.Bench.Iterations)
	assert.Equal(t, map[string]string{"foo": "123", "bar": "456"}, conf.Storage.InitialData)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(os.TempDir(), "nestkv-does-not-exist.toml"))
	assert.Error(t, err)

	dir, err := ioutil.TempDir("", "nestkv-config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, ioutil.WriteFile(path, []byte("[bench]\nworkers = 0\n"), 0644))
	_, err = LoadFile(path)
	assert.Error(t, err)
}

func TestSetupLogger(t *testing.T) {
	conf := NewTestConfig()
	conf.Log.Level = "info"
	require.NoError(t, conf.SetupLogger())
	assert.NotNil(t, conf.GetZapLogger())
	assert.NotNil(t, conf.GetZapLogProperties())
}
