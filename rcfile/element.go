package rcfile

type Role int

const (
	RoleCommand Role = iota
	RoleConfig
	RoleFlagName
	RoleFlagValue
	RolePositional
	RoleComment
)

func (r Role) String() string {
	switch r {
	case RoleCommand:
		return "command"
	case RoleConfig:
		return "config"
	case RoleFlagName:
		return "flag"
	case RoleFlagValue:
		return "value"
	case RolePositional:
		return "argument"
	case RoleComment:
		return "comment"
	}
	return "unknown"
}

// Element is one spanned part of a line together with the role it plays.
// Flag is the index into Line.Flags for flag parts and -1 otherwise.
type Element struct {
	Role  Role
	Value string
	Span  Span
	Flag  int
}

// Elements flattens the line into its parts in source order.
func (l Line) Elements() []Element {
	var out []Element
	if l.Command != nil {
		out = append(out, Element{Role: RoleCommand, Value: l.Command.Value, Span: l.Command.Span, Flag: -1})
	}
	if l.Config != nil {
		out = append(out, Element{Role: RoleConfig, Value: l.Config.Value, Span: l.Config.Span, Flag: -1})
	}
	for i, f := range l.Flags {
		switch {
		case f.Name != nil:
			out = append(out, Element{Role: RoleFlagName, Value: f.Name.Value, Span: f.Name.Span, Flag: i})
			if f.Value != nil {
				out = append(out, Element{Role: RoleFlagValue, Value: f.Value.Value, Span: f.Value.Span, Flag: i})
			}
		case f.Value != nil:
			out = append(out, Element{Role: RolePositional, Value: f.Value.Value, Span: f.Value.Span, Flag: i})
		}
	}
	if l.Comment != nil {
		out = append(out, Element{Role: RoleComment, Value: l.Comment.Value, Span: l.Comment.Span, Flag: -1})
	}
	return out
}
