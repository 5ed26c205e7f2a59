package server

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"

	svcErr "github.com/oggyb/vidhub/internal/errors"
)

// Args reads typed fields out of a request Struct. Ids may be sent as
// decimal strings or as numbers.
type Args struct {
	fields map[string]*structpb.Value
}

func ArgsOf(req *structpb.Struct) Args {
	return Args{fields: req.GetFields()}
}

// Has reports whether name is present and not null.
func (a Args) Has(name string) bool {
	v, ok := a.fields[name]
	if !ok {
		return false
	}
	_, isNull := v.GetKind().(*structpb.Value_NullValue)
	return !isNull
}

// ID returns a required positive id.
func (a Args) ID(name string) (uint64, error) {
	if !a.Has(name) {
		return 0, svcErr.InvalidArgument(name + " is required")
	}
	id, err := a.OptionalID(name)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, svcErr.InvalidArgument(name + " must be a positive integer")
	}
	return id, nil
}

// OptionalID returns 0 when name is absent.
func (a Args) OptionalID(name string) (uint64, error) {
	if !a.Has(name) {
		return 0, nil
	}
	switch k := a.fields[name].GetKind().(type) {
	case *structpb.Value_StringValue:
		id, err := strconv.ParseUint(strings.TrimSpace(k.StringValue), 10, 64)
		if err != nil {
			return 0, svcErr.InvalidArgument(name + " must be a valid uint64")
		}
		return id, nil
	case *structpb.Value_NumberValue:
		n := k.NumberValue
		if n < 0 || n != math.Trunc(n) || n > math.MaxInt64 {
			return 0, svcErr.InvalidArgument(name + " must be a valid uint64")
		}
		return uint64(n), nil
	default:
		return 0, svcErr.InvalidArgument(name + " must be a valid uint64")
	}
}

// String returns the string value of name, or "" when absent.
func (a Args) String(name string) string {
	if !a.Has(name) {
		return ""
	}
	switch k := a.fields[name].GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(k.NumberValue, 'f', -1, 64)
	case *structpb.Value_BoolValue:
		return strconv.FormatBool(k.BoolValue)
	}
	return ""
}

// Int returns an integer field, 0 when absent. Negative values are
// returned as sent.
func (a Args) Int(name string) (int64, error) {
	if !a.Has(name) {
		return 0, nil
	}
	switch k := a.fields[name].GetKind().(type) {
	case *structpb.Value_NumberValue:
		if k.NumberValue != math.Trunc(k.NumberValue) {
			return 0, svcErr.InvalidArgument(name + " must be an integer")
		}
		return int64(k.NumberValue), nil
	case *structpb.Value_StringValue:
		n, err := strconv.ParseInt(strings.TrimSpace(k.StringValue), 10, 64)
		if err != nil {
			return 0, svcErr.InvalidArgument(name + " must be an integer")
		}
		return n, nil
	}
	return 0, svcErr.InvalidArgument(fmt.Sprintf("%s must be an integer", name))
}

// Float returns a numeric field, 0 when absent.
func (a Args) Float(name string) (float64, error) {
	if !a.Has(name) {
		return 0, nil
	}
	switch k := a.fields[name].GetKind().(type) {
	case *structpb.Value_NumberValue:
		return k.NumberValue, nil
	case *structpb.Value_StringValue:
		f, err := strconv.ParseFloat(strings.TrimSpace(k.StringValue), 64)
		if err != nil {
			return 0, svcErr.InvalidArgument(name + " must be a number")
		}
		return f, nil
	}
	return 0, svcErr.InvalidArgument(name + " must be a number")
}
