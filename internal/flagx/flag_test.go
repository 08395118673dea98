package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "conf.json", "-a", "localhost"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "equals form",
			args:         []string{"-config=alt.json", "-a", "localhost"},
			allowedFlags: []string{"-config"},
			want:         []string{"-config=alt.json"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "flag without value at end",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "next argument looks like a flag",
			args:         []string{"-s", "-d", "dsn"},
			allowedFlags: []string{"-s", "-d"},
			want:         []string{"-s", "-d", "dsn"},
		},
		{
			name:         "positional value with equals sign is not a flag",
			args:         []string{"-d", "host=db user=app"},
			allowedFlags: []string{"-d"},
			want:         []string{"-d", "host=db user=app"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	assert.Equal(t, "a.json", ConfigFileFlag([]string{"-a", ":80", "-c", "a.json"}))
	assert.Equal(t, "b.json", ConfigFileFlag([]string{"-config=b.json"}))
	assert.Equal(t, "", ConfigFileFlag([]string{"-a", ":80"}))
	assert.Equal(t, "", ConfigFileFlag(nil))
}
