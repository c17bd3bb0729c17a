package flagx

import (
	"reflect"
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
			name:         "env file with separate value",
			args:         []string{"-env", "dev.env", "-a", ":9090"},
			allowedFlags: []string{"-env", "--env"},
			want:         []string{"-env", "dev.env"},
		},
		{
			name:         "double dash with equals",
			args:         []string{"--env=prod.env", "-auth=false"},
			allowedFlags: []string{"-env", "--env"},
			want:         []string{"--env=prod.env"},
		},
		{
			name:         "server flags kept in order, others dropped",
			args:         []string{"-a", ":8081", "-x", "1", "-s", "secret-key", "-auth=false"},
			allowedFlags: []string{"-a", "-s", "-auth"},
			want:         []string{"-a", ":8081", "-s", "secret-key", "-auth=false"},
		},
		{
			name:         "positional arguments ignored",
			args:         []string{"serve", "--verbose", "extra"},
			allowedFlags: []string{"-a"},
			want:         []string{},
		},
		{
			name:         "trailing flag without value",
			args:         []string{"-m"},
			allowedFlags: []string{"-m"},
			want:         []string{"-m"},
		},
		{
			name:         "dash-prefixed token is not consumed as value",
			args:         []string{"-t", "-5", "-u", "http://wms.local"},
			allowedFlags: []string{"-t", "-u"},
			want:         []string{"-t", "-u", "http://wms.local"},
		},
		{
			name:         "equals value may start with dashes",
			args:         []string{"-s=--not-a-flag--"},
			allowedFlags: []string{"-s"},
			want:         []string{"-s=--not-a-flag--"},
		},
		{
			name:         "repeated flag preserved",
			args:         []string{"-env", "a.env", "-env", "b.env"},
			allowedFlags: []string{"-env"},
			want:         []string{"-env", "a.env", "-env", "b.env"},
		},
		{
			name:         "nil args give empty slice",
			args:         nil,
			allowedFlags: []string{"-a"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowedFlags)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("FilterArgs() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestStringFlag(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "short", args: []string{"-e", "/path/short.env"}, want: "/path/short.env"},
		{name: "long with equals", args: []string{"--env=/path/long.env"}, want: "/path/long.env"},
		{name: "unknown flags ignored", args: []string{"-x", "1", "-y", "2"}, want: ""},
		{name: "last wins", args: []string{"-e", "/path/1.env", "-env", "/path/2.env"}, want: "/path/2.env"},
		{name: "mixed with other flags", args: []string{"-a", ":8080", "-e", "dev.env", "-s", "k"}, want: "dev.env"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StringFlag(tt.args, "e", "env"))
		})
	}
}
