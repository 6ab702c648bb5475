package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keyladder/internal/action"
	"github.com/dshills/keyladder/internal/situation"
)

// Effect compiles a Lua chunk into an escalation effect.
//
// The chunk runs once per dispatch. A true return value reports the
// effect changed host state; false or nil reports a no-op. Runtime
// errors surface as error results and stop at the registry boundary.
func (s *State) Effect(name, chunk string) (action.Effect, error) {
	fn, err := s.compile("action:"+name, chunk)
	if err != nil {
		return nil, err
	}

	return action.NewFunc(name, func(ctx *action.Context) action.Result {
		ret, err := s.call(fn, ctx)
		if err != nil {
			return action.Error(fmt.Errorf("lua effect %s: %w", name, err))
		}
		if lua.LVAsBool(ret) {
			return action.Changed().WithMessage("lua:" + name)
		}
		return action.NoOp()
	}), nil
}

// Probe compiles a Lua chunk into a completion-popup predicate.
//
// The chunk's truthiness is the popup's visibility. Runtime errors are
// returned to the classifier, which treats them as "no popup".
func (s *State) Probe(chunk string) (situation.PopupProbe, error) {
	fn, err := s.compile("popup-probe", chunk)
	if err != nil {
		return nil, err
	}

	return func() (bool, error) {
		ret, err := s.call(fn, nil)
		if err != nil {
			return false, fmt.Errorf("lua probe: %w", err)
		}
		return lua.LVAsBool(ret), nil
	}, nil
}

// RegisterEffects compiles each named chunk and registers it.
// The first failure aborts registration; callers treat it as a
// configuration error.
func (s *State) RegisterEffects(r *action.Registry, chunks map[string]string) error {
	for name, chunk := range chunks {
		eff, err := s.Effect(name, chunk)
		if err != nil {
			return fmt.Errorf("custom action %s: %w", name, err)
		}
		if err := r.Register(eff); err != nil {
			return fmt.Errorf("custom action %s: %w", name, err)
		}
	}
	return nil
}
