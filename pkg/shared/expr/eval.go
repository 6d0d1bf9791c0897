/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package expr evaluates boolean expressions against the fields of a tick, used to filter ticks before they reach
// the indicators.
package expr

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Masterminds/sprig/v3"
	"github.com/antonmedv/expr"
	"github.com/antonmedv/expr/vm"
	lru "github.com/hashicorp/golang-lru/v2"
)

var sprigFuncMap = sprig.GenericFuncMap()

// programs caches compiled expressions, a replay compiles the same filter for every indicator.
var programs, _ = lru.New[string, *vm.Program](64)

// EvalBool evaluates the expression against the given environment, the result must be a boolean.
func EvalBool(expression string, env map[string]interface{}) (bool, error) {
	f, err := NewFilter(expression, env)
	if err != nil {
		return false, err
	}
	return f.Match(env)
}

// Filter is a compiled boolean expression.
type Filter struct {
	expression string
	program    *vm.Program
}

// NewFilter compiles the expression. sample is an environment with the same keys and value types as the ones the
// filter will be matched against, it is used to type check the expression.
func NewFilter(expression string, sample map[string]interface{}) (*Filter, error) {
	key := cacheKey(expression, sample)
	if program, ok := programs.Get(key); ok {
		return &Filter{expression: expression, program: program}, nil
	}
	program, err := expr.Compile(expression, expr.Env(withFuncMap(sample)), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("unable to compile expression '%s': %w", expression, err)
	}
	programs.Add(key, program)
	return &Filter{expression: expression, program: program}, nil
}

// Match runs the compiled expression against the environment.
func (f *Filter) Match(env map[string]interface{}) (bool, error) {
	result, err := expr.Run(f.program, withFuncMap(env))
	if err != nil {
		return false, fmt.Errorf("unable to evaluate expression '%s': %w", f.expression, err)
	}
	resultBool, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("unable to cast expression result '%v' to bool", result)
	}
	return resultBool, nil
}

// String returns the source of the expression.
func (f *Filter) String() string {
	return f.expression
}

// cacheKey identifies a compiled program by its source and the names and types of the environment it was checked
// against.
func cacheKey(expression string, env map[string]interface{}) string {
	fields := make([]string, 0, len(env))
	for k, v := range env {
		fields = append(fields, fmt.Sprintf("%s:%T", k, v))
	}
	sort.Strings(fields)
	return expression + "\x00" + strings.Join(fields, ",")
}

func withFuncMap(m map[string]interface{}) map[string]interface{} {
	env := make(map[string]interface{}, len(m)+3)
	for k, v := range m {
		env[k] = v
	}
	env["sprig"] = sprigFuncMap
	env["int"] = _int
	env["string"] = _string
	return env
}

func _int(v interface{}) int {
	switch w := v.(type) {
	case []byte:
		i, err := strconv.Atoi(string(w))
		if err != nil {
			panic(fmt.Errorf("cannot convert %q an int", v))
		}
		return i
	case string:
		i, err := strconv.Atoi(w)
		if err != nil {
			panic(fmt.Errorf("cannot convert %q to int", v))
		}
		return i
	case float64:
		return int(w)
	case int:
		return w
	case int64:
		return int(w)
	default:
		panic(fmt.Errorf("cannot convert %q to int", v))
	}
}

func _string(v interface{}) string {
	switch w := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(w)
	default:
		return fmt.Sprintf("%v", v)
	}
}
