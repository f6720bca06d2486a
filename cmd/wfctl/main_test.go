package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandValidation(t *testing.T) {
	testCases := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "down needs positive steps", args: []string{"migrate", "down", "--steps", "0"}, wantErr: "--steps must be at least 1"},
		{name: "admin needs email", args: []string{"admin", "create", "--password", "secret1"}, wantErr: "--email and --password are required"},
		{name: "up takes no args", args: []string{"migrate", "up", "extra"}, wantErr: "unknown command"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := newRootCmd()

			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetErr(&out)
			cmd.SetArgs(tc.args)

			err := cmd.Execute()
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestCommandTree(t *testing.T) {
	cmd := newRootCmd()

	for _, path := range [][]string{{"migrate", "up"}, {"migrate", "down"}, {"admin", "create"}} {
		found, _, err := cmd.Find(path)
		assert.NoError(t, err)
		assert.Equal(t, path[len(path)-1], found.Name())
	}
}
