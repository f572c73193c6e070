package greatwall

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Yuri-SVB/Great-Wall/secret"
	"github.com/Yuri-SVB/Great-Wall/tacit"
)

// Candidate is one branch as shown to the user.
type Candidate struct {
	// Position is the 1-based display position, the value passed to Choose.
	Position int
	// Branch is the zero-based underlying branch index.
	Branch int
	// Value is the branch's untagged derived value.
	Value []byte
	// Display holds the values the session's renderer asked for, in
	// Renderer.Tags order. Empty without a renderer.
	Display []tacit.Value
}

// Options is the result of ListOptions.
type Options struct {
	Level int
	// Permutation maps display position i (0-based) to Branch.
	Permutation []int
	Candidates  []Candidate
}

// ListOptions derives every branch of the current node in a freshly shuffled
// display order. The order is remembered for the next Choose; nothing else
// changes.
func (e *Engine) ListOptions(ctx context.Context) (Options, error) {
	e.opMu.Lock()
	defer e.release()

	if e.canceled.Load() {
		return Options{}, e.canceledError(RuleSessionCanceled, "greatwall: session canceled")
	}
	if err := e.navigableLocked(); err != nil {
		return Options{}, err
	}
	if e.level >= e.topo.Depth {
		return Options{}, newError(KindTransition, RuleAtDepth, "greatwall: at full depth; finish or go back")
	}
	if err := ctx.Err(); err != nil {
		return Options{}, err
	}

	arity := e.topo.Arity
	perm := e.shuffler.Perm(arity)
	if !validPerm(perm, arity) {
		return Options{}, newError(KindInternal, RuleShuffler, fmt.Sprintf("greatwall: shuffler returned an invalid permutation of %d", arity))
	}

	state, err := e.currentStateLocked()
	if err != nil {
		return Options{}, err
	}
	defer secret.Wipe(state)

	var tags []string
	if e.renderer != nil {
		tags = e.renderer.Tags()
	}
	cands := make([]Candidate, arity)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)
	for i, branch := range perm {
		g.Go(func() error {
			if e.canceled.Load() {
				return ErrCanceled
			}
			if err := gctx.Err(); err != nil {
				return err
			}
			bv, err := e.deriver.Branch(state, uint32(branch), tags)
			if err != nil {
				return err
			}
			cands[i] = Candidate{Position: i + 1, Branch: branch, Value: bv.Value, Display: bv.Tagged}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		switch {
		case errors.Is(err, ErrCanceled):
			return Options{}, e.canceledError(RuleSessionCanceled, "greatwall: session canceled while listing options")
		case isContextErr(err):
			return Options{}, err
		default:
			return Options{}, hashError("greatwall: derive branch values", err)
		}
	}

	e.perm = perm
	e.rec.OptionsListed(arity)
	return Options{Level: e.level, Permutation: append([]int(nil), perm...), Candidates: cands}, nil
}

// Choose descends into the branch shown at display position displayed
// (1-based) by the most recent ListOptions. A node reached before is
// restored from the cache; otherwise its state is
// quick(parent state || derived value of the branch).
func (e *Engine) Choose(ctx context.Context, displayed int) error {
	e.opMu.Lock()
	defer e.release()

	if err := e.transitionLocked(); err != nil {
		return err
	}
	if e.level >= e.topo.Depth {
		return newError(KindTransition, RuleAtDepth, "greatwall: at full depth; finish or go back")
	}
	if displayed < 1 || displayed > e.topo.Arity {
		return newError(KindTransition, RuleBadChoice, fmt.Sprintf("greatwall: choice %d out of range [1, %d]", displayed, e.topo.Arity))
	}
	if e.perm == nil {
		return newError(KindTransition, RuleNoOptionsListed, "greatwall: list options before choosing")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	branch := e.perm[displayed-1]
	child := e.path.Clone()
	if err := child.Append(branch); err != nil {
		return wrapError(KindInternal, RuleCacheMiss, "greatwall: extend path", err)
	}

	hit := e.cache.Has(child)
	e.rec.CacheLookup(hit)
	if !hit {
		state, err := e.currentStateLocked()
		if err != nil {
			return err
		}
		next, err := e.descend(state, branch)
		secret.Wipe(state)
		if err != nil {
			return hashError("greatwall: advance", err)
		}
		e.cache.Put(child, next)
		secret.Wipe(next)
	}

	e.path = child
	e.level++
	e.perm = nil
	e.log.Debug("advanced", zap.String("session", e.sessionID.String()), zap.Int("level", e.level), zap.Bool("cached", hit))
	return nil
}

// descend computes a child's state from its parent's. The derived branch
// value, not the branch index, is what gets folded in.
func (e *Engine) descend(state []byte, branch int) ([]byte, error) {
	v, err := e.deriver.Derive(state, uint32(branch), nil)
	if err != nil {
		return nil, err
	}
	in := make([]byte, 0, len(state)+len(v))
	in = append(in, state...)
	in = append(in, v...)
	defer secret.Wipe(in)
	return e.stretcher.Quick(in)
}

// GoBack returns to the parent node, restoring its cached state. At the root
// it does nothing. After Finish it resumes exploration.
func (e *Engine) GoBack() error {
	e.opMu.Lock()
	defer e.release()

	if err := e.transitionAllowFinishedLocked(); err != nil {
		return err
	}
	if e.level == 0 {
		return nil
	}
	parent := e.path.Parent()
	if !e.cache.Has(parent) {
		return newError(KindInternal, RuleCacheMiss, fmt.Sprintf("greatwall: no cached state for level %d", e.level-1))
	}
	e.rec.CacheLookup(true)
	e.path = parent
	e.level--
	e.finished = false
	e.perm = nil
	e.log.Debug("went back", zap.String("session", e.sessionID.String()), zap.Int("level", e.level))
	return nil
}

// Finish returns a copy of the leaf state, the derived secret, and marks the
// session finished. It is valid only at full depth, and only once until
// GoBack is called.
func (e *Engine) Finish() ([]byte, error) {
	e.opMu.Lock()
	defer e.release()

	if err := e.transitionLocked(); err != nil {
		return nil, err
	}
	if e.level < e.topo.Depth {
		return nil, newError(KindTransition, RuleFinishEarly, fmt.Sprintf("greatwall: finish at level %d, depth is %d", e.level, e.topo.Depth))
	}
	out, err := e.currentStateLocked()
	if err != nil {
		return nil, err
	}
	e.finished = true
	e.perm = nil
	e.log.Info("derivation finished", zap.String("session", e.sessionID.String()))
	return out, nil
}

func (e *Engine) navigableLocked() error {
	if !e.initialized {
		return newError(KindTransition, RuleNotInitialized, "greatwall: bootstrap has not completed")
	}
	if e.finished {
		return newError(KindTransition, RuleAfterFinish, "greatwall: derivation finished; go back to continue")
	}
	return nil
}

func (e *Engine) transitionLocked() error {
	if e.canceled.Load() {
		return wrapError(KindTransition, RuleAfterCancel, "greatwall: session canceled", ErrCanceled)
	}
	return e.navigableLocked()
}

func (e *Engine) transitionAllowFinishedLocked() error {
	if e.canceled.Load() {
		return wrapError(KindTransition, RuleAfterCancel, "greatwall: session canceled", ErrCanceled)
	}
	if !e.initialized {
		return newError(KindTransition, RuleNotInitialized, "greatwall: bootstrap has not completed")
	}
	return nil
}
