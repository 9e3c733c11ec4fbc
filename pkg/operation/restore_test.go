// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/patchrc/pkg/config"
	"github.com/walteh/patchrc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

func TestRestore(t *testing.T) {
	h := newHarness(t)
	original := h.adminJS(t)

	opts := h.options(config.Default())
	opts.Backup = true
	require.NoError(t, h.run(t, NewApplyOperation(opts)))
	require.NotEqual(t, original, h.read(t, config.BuiltinTarget))

	op := NewRestoreOperation(h.options(config.Default()))
	assert.Equal(t, "restore", op.Name())
	require.NoError(t, h.run(t, op))

	assert.Equal(t, original, h.read(t, config.BuiltinTarget))
	_, err := os.Stat(filepath.Join(h.dir, config.BuiltinTarget+status.BackupSuffix))
	assert.True(t, os.IsNotExist(err))
	assert.Contains(t, h.console.String(), "1 file(s) restored")
	assert.Equal(t, []status.FileStatus{status.StatusRestored}, h.statuses(t))
}

func TestRestore_MissingBackup(t *testing.T) {
	h := newHarness(t)
	original := h.adminJS(t)

	err := h.run(t, NewRestoreOperation(h.options(config.Default())))
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNoBackup))

	assert.Equal(t, original, h.read(t, config.BuiltinTarget))
	assert.Equal(t, []status.FileStatus{status.StatusFailed}, h.statuses(t))
}

func TestPatchNames(t *testing.T) {
	tests := []struct {
		name   string
		target Target
		want   string
	}{
		{name: "single", target: Target{Patches: []config.Patch{{Name: "a"}}}, want: "a"},
		{name: "several", target: Target{Patches: []config.Patch{{Name: "a"}, {Name: "b"}}}, want: "a,b"},
		{name: "none", target: Target{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, patchNames(tt.target))
		})
	}
}
