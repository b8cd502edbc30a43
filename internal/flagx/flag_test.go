package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	cfgFlags := []string{"-c", "-config", "--config"}

	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-a", "https://clinic.example.com", "-c", "medportal.json", "-t", "10s"},
			allowed: cfgFlags,
			want:    []string{"-c", "medportal.json"},
		},
		{
			name:    "equals form",
			args:    []string{"-s", "state.db", "--config=staging.json"},
			allowed: cfgFlags,
			want:    []string{"--config=staging.json"},
		},
		{
			name:    "mixed forms keep their order",
			args:    []string{"-config=a.json", "-i", "30s", "-c", "b.json"},
			allowed: cfgFlags,
			want:    []string{"-config=a.json", "-c", "b.json"},
		},
		{
			name:    "nothing allowed present",
			args:    []string{"-p", "strict", "extra"},
			allowed: cfgFlags,
			want:    []string{},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-a", "http://localhost:8000", "-c"},
			allowed: cfgFlags,
			want:    []string{"-c"},
		},
		{
			name:    "dash token is not a value",
			args:    []string{"-c", "-t", "5s"},
			allowed: cfgFlags,
			want:    []string{"-c"},
		},
		{
			name:    "several allowed flags",
			args:    []string{"-t", "5s", "-a", "http://api", "-p", "lenient"},
			allowed: []string{"-a", "-p"},
			want:    []string{"-a", "http://api", "-p", "lenient"},
		},
		{
			name:    "repeated flag",
			args:    []string{"-s", "one.db", "-s", "two.db"},
			allowed: []string{"-s"},
			want:    []string{"-s", "one.db", "-s", "two.db"},
		},
		{
			name:    "no args",
			args:    nil,
			allowed: cfgFlags,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigPath(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "short -c", args: []string{"-c", "/etc/medportal/short.json"}, want: "/etc/medportal/short.json"},
		{name: "long -config", args: []string{"-config", "/etc/medportal/long.json"}, want: "/etc/medportal/long.json"},
		{name: "equals form", args: []string{"-a", "http://api", "--config=eq.json"}, want: "eq.json"},
		{name: "other flags only", args: []string{"-a", "http://api", "-t", "5"}, want: ""},
		{name: "last wins", args: []string{"-c", "1.json", "-config", "2.json"}, want: "2.json"},
		{name: "flag without value", args: []string{"-c"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfigPath(tt.args))
		})
	}
}
