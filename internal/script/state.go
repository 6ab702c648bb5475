package script

import (
	"fmt"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keyladder/internal/action"
	"github.com/dshills/keyladder/internal/host"
	"github.com/dshills/keyladder/internal/logging"
)

// State owns one sandboxed Lua interpreter shared by every scripted
// effect and probe.
//
// gopher-lua's LState is not goroutine-safe; every interpreter operation
// runs under the state mutex. The ambient host answers host.* calls made
// outside a dispatch (probes); during an effect's Apply the dispatch
// context takes precedence.
type State struct {
	mu      sync.Mutex
	L       *lua.LState
	ambient host.Host
	current *action.Context
	logger  *logging.Logger
	closed  bool
}

// New creates a sandboxed Lua state bound to the given host.
// The host may be nil; host.* calls then report nothing.
func New(h host.Host, logger *logging.Logger) *State {
	if logger == nil {
		logger = logging.NullLogger
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	// Safe base libraries only: no io, os, debug or package.
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Chunks must not load further code.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}

	s := &State{
		L:       L,
		ambient: h,
		logger:  logger.WithComponent("script"),
	}
	s.installHostTable()
	return s
}

// installHostTable exposes the host API to chunks.
func (s *State) installHostTable() {
	tbl := s.L.NewTable()
	s.L.SetFuncs(tbl, map[string]lua.LGFunction{
		"execute":     s.luaExecute,
		"mode":        s.luaMode,
		"buffer_name": s.luaBufferName,
		"situation":   s.luaSituation,
	})
	s.L.SetGlobal("host", tbl)
}

// Close releases the interpreter. Compiled effects and probes fail with
// ErrStateClosed afterwards.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.L.Close()
}

// compile parses a chunk into a callable function without running it.
func (s *State) compile(name, chunk string) (*lua.LFunction, error) {
	if strings.TrimSpace(chunk) == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyChunk, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStateClosed
	}

	fn, err := s.L.Load(strings.NewReader(chunk), name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCompile, name, err)
	}
	return fn, nil
}

// call runs a compiled chunk with ctx installed as the dispatch context
// and returns the chunk's first return value.
func (s *State) call(fn *lua.LFunction, ctx *action.Context) (lua.LValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil, ErrStateClosed
	}

	s.current = ctx
	defer func() { s.current = nil }()

	var ret lua.LValue = lua.LNil
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("lua panic: %v", r)
			}
		}()

		s.L.Push(fn)
		if err := s.L.PCall(0, 1, nil); err != nil {
			return err
		}
		ret = s.L.Get(-1)
		s.L.Pop(1)
		return nil
	}()
	return ret, err
}

// executor returns the executor for the running chunk.
// Caller must hold the lock.
func (s *State) executor() host.Executor {
	if s.current != nil && s.current.Executor != nil {
		return s.current.Executor
	}
	if s.ambient != nil {
		return s.ambient
	}
	return nil
}

// inspector returns the inspector for the running chunk.
// Caller must hold the lock.
func (s *State) inspector() host.Inspector {
	if s.current != nil && s.current.Inspector != nil {
		return s.current.Inspector
	}
	if s.ambient != nil {
		return s.ambient
	}
	return nil
}

// luaExecute implements host.execute(cmd).
func (s *State) luaExecute(L *lua.LState) int {
	cmd := L.CheckString(1)

	exec := s.executor()
	if exec == nil {
		L.Push(lua.LFalse)
		return 1
	}

	if err := exec.Execute(cmd); err != nil {
		s.logger.Debug("host.execute(%q) failed: %v", cmd, err)
		L.Push(lua.LFalse)
		return 1
	}
	L.Push(lua.LTrue)
	return 1
}

// luaMode implements host.mode().
func (s *State) luaMode(L *lua.LState) int {
	insp := s.inspector()
	if insp == nil {
		L.Push(lua.LString(host.ModeUnknown.String()))
		return 1
	}
	L.Push(lua.LString(insp.Mode().String()))
	return 1
}

// luaBufferName implements host.buffer_name().
func (s *State) luaBufferName(L *lua.LState) int {
	insp := s.inspector()
	if insp == nil {
		L.Push(lua.LString(""))
		return 1
	}
	L.Push(lua.LString(insp.CurrentBuffer().Name))
	return 1
}

// luaSituation implements host.situation().
func (s *State) luaSituation(L *lua.LState) int {
	if s.current == nil || s.current.Classify == nil {
		L.Push(lua.LString("unknown"))
		return 1
	}
	L.Push(lua.LString(s.current.Classify().String()))
	return 1
}
