package manifest

import (
	lua "github.com/yuin/gopher-lua"
)

// sandboxLuaVM strips the overlay VM of anything non-declarative:
// - system access (os.execute, os.exit, os.getenv)
// - filesystem access (io.open, io.popen)
// - code loading (require, dofile, loadfile, load, loadstring)
// - the debug library, which could reach around the sandbox
//
// string, table, math, and the basic utilities (type, tostring, pairs,
// ipairs, ...) remain available for building the workspace table.
func sandboxLuaVM(L *lua.LState) {
	L.SetGlobal("os", lua.LNil)
	L.SetGlobal("io", lua.LNil)
	L.SetGlobal("require", lua.LNil)
	L.SetGlobal("dofile", lua.LNil)
	L.SetGlobal("loadfile", lua.LNil)
	L.SetGlobal("load", lua.LNil)
	L.SetGlobal("loadstring", lua.LNil)
	L.SetGlobal("debug", lua.LNil)
}

// newSandboxedVM creates a Lua VM with the sandbox applied. This is the
// only way overlay code is ever executed.
func newSandboxedVM() *lua.LState {
	L := lua.NewState()
	sandboxLuaVM(L)
	return L
}
