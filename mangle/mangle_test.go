package mangle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wippyai/wasm-uasm/mangle"
)

func TestMangle(t *testing.T) {
	tests := []struct {
		role mangle.Role
		want string
	}{
		{mangle.Local{FuncName: "foo", Index: 1}, "__foo_L1"},
		{mangle.Local{FuncName: "main", Index: 0}, "__main_L0"},
		{mangle.Global{Index: 2}, "__G__2"},
		{mangle.Global{Index: 4294967295}, "__G__4294967295"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mangle.Mangle(tt.role))
	}
}

func TestMangleInjective(t *testing.T) {
	roles := []mangle.Role{
		mangle.Global{Index: 0},
		mangle.Global{Index: 1},
		mangle.Global{Index: 10},
		mangle.Local{FuncName: "G_", Index: 0},
		mangle.Local{FuncName: "G", Index: 0},
		mangle.Local{FuncName: "f", Index: 1},
		mangle.Local{FuncName: "f", Index: 11},
		mangle.Local{FuncName: "f_L1", Index: 1},
		mangle.Local{FuncName: "f_L", Index: 11},
	}
	seen := make(map[string]mangle.Role)
	for _, r := range roles {
		name := mangle.Mangle(r)
		if prev, ok := seen[name]; ok {
			t.Errorf("%+v and %+v both mangle to %q", prev, r, name)
		}
		seen[name] = r
	}
}

func TestInitLabel(t *testing.T) {
	assert.Equal(t, "__INIT___G__0", mangle.InitLabel(mangle.Mangle(mangle.Global{Index: 0})))
}
