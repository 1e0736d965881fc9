// Package tt supports table-driven tests with little boilerplate.
//
// A test is a function to test plus a Table of cases; each case supplies
// arguments and the expected return values. Return values are compared
// with github.com/google/go-cmp, so failures come with a diff.
package tt

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Table is a list of test cases.
type Table []*Case

// Case is one test case: arguments plus expected return values. Build it
// with Args(...).Rets(...).
type Case struct {
	args     []any
	wantRets []any
}

// Args starts a new Case with the given arguments.
func Args(args ...any) *Case { return &Case{args: args} }

// Rets sets the expected return values and returns the case itself.
func (c *Case) Rets(rets ...any) *Case {
	c.wantRets = rets
	return c
}

// FnDescr describes the function under test.
type FnDescr struct {
	name string
	body any
	opts []cmp.Option
}

// Fn describes a function to test. Extra cmp options apply to every
// return-value comparison.
func Fn(name string, body any, opts ...cmp.Option) *FnDescr {
	return &FnDescr{name, body, opts}
}

// T is the subset of *testing.T that Test needs.
type T interface {
	Helper()
	Errorf(format string, args ...any)
}

// Test calls the function against every case in the table and reports
// mismatching return values.
func Test(t T, fn *FnDescr, tests Table) {
	t.Helper()
	opts := append([]cmp.Option{cmpopts.EquateErrors()}, fn.opts...)
	for _, test := range tests {
		rets := call(fn.body, test.args)
		if len(rets) != len(test.wantRets) {
			t.Errorf("%s(%s) returned %d values, want %d",
				fn.name, sprintSeq(test.args), len(rets), len(test.wantRets))
			continue
		}
		for i, want := range test.wantRets {
			if d := cmp.Diff(want, rets[i], opts...); d != "" {
				t.Errorf("%s(%s) return #%d (-want +got):\n%s",
					fn.name, sprintSeq(test.args), i, d)
			}
		}
	}
}

func sprintSeq(vals []any) string {
	var sb strings.Builder
	for i, v := range vals {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%v", v)
	}
	return sb.String()
}

func call(fn any, args []any) []any {
	fnV := reflect.ValueOf(fn)
	fnT := fnV.Type()
	argsV := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg == nil {
			// A plain nil needs the type of the corresponding parameter.
			argsV[i] = reflect.Zero(fnT.In(i))
		} else {
			argsV[i] = reflect.ValueOf(arg)
		}
	}
	retsV := fnV.Call(argsV)
	rets := make([]any, len(retsV))
	for i, retV := range retsV {
		rets[i] = retV.Interface()
	}
	return rets
}
