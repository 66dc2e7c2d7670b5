package engine

import (
	"fmt"
	"strings"

	"github.com/Nelarius/Morphoviewer/pkg/geom"
	"github.com/Nelarius/Morphoviewer/pkg/kernel"
	"github.com/Nelarius/Morphoviewer/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// kwPrefix marks keyword names rewritten by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites shape script source into something zygomys
// accepts:
//
//  1. :keyword becomes the string literal "__kw_keyword", so keywords never
//     collide with user variables of the same name.
//  2. Kebab-case identifiers become snake_case (outer-shell -> outer_shell),
//     since zygomys reads a hyphen as subtraction.
//  3. ; line comments become // comments.
//
// String literals are copied through untouched.
func preprocessSource(source string) string {
	b := []byte(source)
	out := make([]byte, 0, len(b)+len(b)/4)

	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == '"':
			j := skipQuoted(b, i, '"', true)
			out = append(out, b[i:j]...)
			i = j

		case c == '`':
			j := skipQuoted(b, i, '`', false)
			out = append(out, b[i:j]...)
			i = j

		case c == ';':
			out = append(out, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				out = append(out, b[i])
				i++
			}

		case c == ':' && i+1 < len(b) && b[i+1] == '=':
			out = append(out, ':', '=')
			i += 2

		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out = append(out, '"')
			out = append(out, kwPrefix...)
			out = append(out, b[i+1:j]...)
			out = append(out, '"')
			i = j

		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out = append(out, '_')
			i++

		default:
			out = append(out, c)
			i++
		}
	}
	return string(out)
}

// skipQuoted returns the index just past the literal opened at b[start].
// An unterminated literal runs to the end of input.
func skipQuoted(b []byte, start int, quote byte, escapes bool) int {
	i := start + 1
	for i < len(b) && b[i] != quote {
		if escapes && b[i] == '\\' && i+1 < len(b) {
			i += 2
			continue
		}
		i++
	}
	if i < len(b) {
		i++
	}
	return i
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Go values carried through the zygomys environment
// ---------------------------------------------------------------------------

// sexpSolid wraps a kernel.Solid so primitives can feed booleans,
// transforms and defpart.
type sexpSolid struct {
	solid kernel.Solid
	desc  string
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string { return "(" + s.desc + ")" }
func (s *sexpSolid) Type() *zygo.RegisteredType           { return nil }

// sexpVec3 wraps a point or direction.
type sexpVec3 struct {
	vec geom.Point
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Argument parsing
// ---------------------------------------------------------------------------

// isKW reports whether s is a rewritten keyword and returns its bare name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs splits a call's arguments into keyword and positional parts.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

func parseArgs(args []zygo.Sexp) kwArgs {
	pa := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			pa.positional = append(pa.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			pa.kw[name] = args[i+1]
			i++
		} else {
			pa.kw[name] = zygo.SexpNull
		}
	}
	return pa
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

func toSolid(s zygo.Sexp) (kernel.Solid, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v.solid, nil
	}
	return nil, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

func toVec3(s zygo.Sexp) (geom.Point, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return geom.Point{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toFloats converts exactly n numeric arguments.
func toFloats(fn string, args []zygo.Sexp, names ...string) ([]float64, error) {
	if len(args) != len(names) {
		return nil, fmt.Errorf("%s requires %d arguments (%s), got %d",
			fn, len(names), strings.Join(names, " "), len(args))
	}
	out := make([]float64, len(args))
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", fn, names[i], err)
		}
		out[i] = f
	}
	return out, nil
}

// sexpListToSlice flattens a Lisp list or array into a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toPoints accepts vec3 values directly or inside lists and arrays.
func toPoints(args []zygo.Sexp) (geom.PointSet, error) {
	var pts geom.PointSet
	for _, a := range args {
		if v, ok := a.(*sexpVec3); ok {
			pts = append(pts, v.vec)
			continue
		}
		items, err := sexpListToSlice(a)
		if err != nil {
			return nil, fmt.Errorf("expected vec3 or list of vec3: %w", err)
		}
		nested, err := toPoints(items)
		if err != nil {
			return nil, err
		}
		pts = append(pts, nested...)
	}
	return pts, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the shape DSL into env. Solids are built with k
// and parts are added to sc as defpart and defcloud run. Every builtin
// fails with ErrEvalCancelled once stop is closed.
//
// Source must go through preprocessSource first so :keyword tokens arrive
// as recognizable strings.
func registerBuiltins(env *zygo.Zlisp, k kernel.Kernel, sc *scene.Scene, stop <-chan struct{}) {
	add := func(name string, fn zygo.ZlispUserFunction) {
		env.AddFunction(name, guard(fn, stop))
	}

	// (vec3 1 2 3)
	add("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		f, err := toFloats("vec3", args, "x", "y", "z")
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpVec3{vec: geom.Point{X: f[0], Y: f[1], Z: f[2]}}, nil
	})

	// (box 40 20 10)
	add("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		f, err := toFloats("box", args, "x", "y", "z")
		if err != nil {
			return zygo.SexpNull, err
		}
		s, err := k.Box(f[0], f[1], f[2])
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{solid: s, desc: fmt.Sprintf("box %g %g %g", f[0], f[1], f[2])}, nil
	})

	// (sphere 10)
	add("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		f, err := toFloats("sphere", args, "radius")
		if err != nil {
			return zygo.SexpNull, err
		}
		s, err := k.Sphere(f[0])
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{solid: s, desc: fmt.Sprintf("sphere %g", f[0])}, nil
	})

	// (cylinder 30 5)
	add("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		f, err := toFloats("cylinder", args, "height", "radius")
		if err != nil {
			return zygo.SexpNull, err
		}
		s, err := k.Cylinder(f[0], f[1])
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{solid: s, desc: fmt.Sprintf("cylinder %g %g", f[0], f[1])}, nil
	})

	// (union a b c ...)
	add("union", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("union requires at least one solid")
		}
		solids := make([]kernel.Solid, len(args))
		for i, a := range args {
			s, err := toSolid(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("union: operand %d: %w", i+1, err)
			}
			solids[i] = s
		}
		return &sexpSolid{solid: k.Union(solids[0], solids[1:]...), desc: fmt.Sprintf("union of %d", len(solids))}, nil
	})

	binary := func(op string, apply func(a, b kernel.Solid) kernel.Solid) {
		add(op, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires exactly 2 solids, got %d", op, len(args))
			}
			a, err := toSolid(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: first operand: %w", op, err)
			}
			b, err := toSolid(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: second operand: %w", op, err)
			}
			return &sexpSolid{solid: apply(a, b), desc: op}, nil
		})
	}
	// (difference a b)
	binary("difference", k.Difference)
	// (intersection a b)
	binary("intersection", k.Intersection)

	transform := func(op string, apply func(s kernel.Solid, x, y, z float64) kernel.Solid) {
		add(op, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			if len(pa.positional) != 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires one solid and :by (vec3 ...)", op)
			}
			s, err := toSolid(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
			}
			by, ok := pa.kw["by"]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("%s: missing :by", op)
			}
			v, err := toVec3(by)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: by: %w", op, err)
			}
			return &sexpSolid{solid: apply(s, v.X, v.Y, v.Z), desc: op}, nil
		})
	}
	// (translate s :by (vec3 10 0 0))
	transform("translate", k.Translate)
	// (rotate s :by (vec3 0 0 45)), degrees about X then Y then Z
	transform("rotate", k.Rotate)

	// (defpart "name" solid)
	add("defpart", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("defpart requires a name and a solid")
		}
		partName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defpart: name: %w", err)
		}
		s, err := toSolid(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defpart: %w", err)
		}
		if err := sc.Add(&scene.Part{Name: partName, Kind: scene.PartSolid, Solid: s}); err != nil {
			return zygo.SexpNull, fmt.Errorf("defpart: %w", err)
		}
		return args[1], nil
	})

	// (defcloud "name" (vec3 ...) (vec3 ...) ...) or with lists of vec3
	add("defcloud", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("defcloud requires a name and points")
		}
		cloudName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defcloud: name: %w", err)
		}
		pts, err := toPoints(args[1:])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defcloud: %w", err)
		}
		if err := sc.Add(&scene.Part{Name: cloudName, Kind: scene.PartCloud, Points: pts}); err != nil {
			return zygo.SexpNull, fmt.Errorf("defcloud: %w", err)
		}
		return &zygo.SexpInt{Val: int64(len(pts))}, nil
	})

	// (part "name") returns a solid defined earlier, for reuse.
	add("part", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("part requires a name argument")
		}
		partName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part: name: %w", err)
		}
		p := sc.Lookup(partName)
		if p == nil {
			return zygo.SexpNull, fmt.Errorf("part: no part named %q", partName)
		}
		if p.Kind != scene.PartSolid {
			return zygo.SexpNull, fmt.Errorf("part: %q is a %s, not a solid", partName, p.Kind)
		}
		return &sexpSolid{solid: p.Solid, desc: fmt.Sprintf("part %q", partName)}, nil
	})
}
