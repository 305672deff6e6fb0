package adapter

import (
	"fmt"

	"github.com/spf13/pflag"
)

// The synthesized argument surface gives every descriptor one boolean
// activation flag named after the adapter, plus one typed flag per
// constructor parameter. Parameter flags are always prefixed with the
// adapter name ("<adapter>-<param>") so two adapters declaring the same
// local parameter name can never collide; the prefix is applied
// unconditionally to keep the resolution deterministic.

// FlagName returns the CLI flag name for one parameter of a descriptor.
func FlagName(d Descriptor, p Param) string {
	return fmt.Sprintf("%s-%s", d.Name, p.Name)
}

// Flags synthesizes the full argument surface for a descriptor set. The
// result is a pure function of the input: identical descriptors always
// produce an identical flag set.
func Flags(descs []Descriptor) *pflag.FlagSet {
	fs := pflag.NewFlagSet("adapters", pflag.ContinueOnError)
	for _, d := range descs {
		fs.Bool(d.Name, false, fmt.Sprintf("activate %s: %s", d.Kind, d.Summary))
		for _, p := range d.Params {
			usage := fmt.Sprintf("[%s] %s (default: %v)", d.Name, p.Usage, p.Default)
			switch p.Type {
			case TypeInt:
				fs.Int(FlagName(d, p), defaultInt(p), usage)
			case TypeBool:
				fs.Bool(FlagName(d, p), defaultBool(p), usage)
			default:
				fs.String(FlagName(d, p), defaultString(p), usage)
			}
		}
	}
	return fs
}

// Activated returns the descriptors whose activation flag is set, in
// descriptor order.
func Activated(fs *pflag.FlagSet, descs []Descriptor) []Descriptor {
	var out []Descriptor
	for _, d := range descs {
		if on, err := fs.GetBool(d.Name); err == nil && on {
			out = append(out, d)
		}
	}
	return out
}

// Collect maps the parsed flag values back to the descriptor's
// constructor arguments, defaults applied for omitted flags.
func Collect(fs *pflag.FlagSet, d Descriptor) (Options, error) {
	opts := make(Options, len(d.Params))
	for _, p := range d.Params {
		flag := FlagName(d, p)
		var (
			v   any
			err error
		)
		switch p.Type {
		case TypeInt:
			v, err = fs.GetInt(flag)
		case TypeBool:
			v, err = fs.GetBool(flag)
		default:
			v, err = fs.GetString(flag)
		}
		if err != nil {
			return nil, fmt.Errorf("collect %s: %w", flag, err)
		}
		opts[p.Name] = v
	}
	return opts, nil
}

func defaultString(p Param) string {
	if v, ok := p.Default.(string); ok {
		return v
	}
	return ""
}

func defaultInt(p Param) int {
	if v, ok := p.Default.(int); ok {
		return v
	}
	return 0
}

func defaultBool(p Param) bool {
	if v, ok := p.Default.(bool); ok {
		return v
	}
	return false
}
