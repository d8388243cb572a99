// Package checkers provides quicktest checkers shared by the e2e tests.
package checkers

import (
	"encoding/json"
	"fmt"
	"reflect"

	qt "github.com/frankban/quicktest"
	"github.com/yalp/jsonpath"
)

// JSONPathEquals returns a checker that asserts the value at path inside a
// JSON string equals the single want argument. Numbers decode as float64 and
// must be compared as such.
func JSONPathEquals(path string) qt.Checker {
	return &jsonPathEqualsChecker{path: path}
}

type jsonPathEqualsChecker struct {
	path string
}

// ArgNames implements qt.Checker.
func (*jsonPathEqualsChecker) ArgNames() []string {
	return []string{"got", "want"}
}

// Check implements qt.Checker.
func (c *jsonPathEqualsChecker) Check(got any, args []any, note func(key string, value any)) error {
	s, ok := got.(string)
	if !ok {
		return fmt.Errorf("got value is %T, not a JSON string", got)
	}

	var doc any
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		return fmt.Errorf("got value is not valid JSON: %v", err)
	}

	val, err := jsonpath.Read(doc, c.path)
	if err != nil {
		return fmt.Errorf("jsonpath %q: %v", c.path, err)
	}

	if !reflect.DeepEqual(val, args[0]) {
		note("jsonpath", c.path)
		note("value at path", val)
		return fmt.Errorf("values are not deep equal")
	}
	return nil
}
