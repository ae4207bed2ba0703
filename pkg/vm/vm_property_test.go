package vm

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/zurustar/sybl/pkg/script"
)

// execute runs src without a testing.T, for use inside properties.
func execute(src string) (*VM, string, error) {
	var buf bytes.Buffer
	vm := New(script.Split(src), WithOutput(&buf), WithLogger(quietLogger()))
	err := vm.Run(context.Background())
	return vm, buf.String(), err
}

// 変数名の生成器: 数値リテラルとして読まれない識別子
func genName() gopter.Gen {
	return gen.Identifier().Map(func(s string) string {
		if len(s) > 16 {
			return s[:16]
		}
		return s
	})
}

// ループ後のループ変数と累積変数はどちらも上限値になる
func TestProperty_LoopRunsBoundTimes(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("loop variable and accumulator end at the bound", prop.ForAll(
		func(bound int64) bool {
			src := lines(
				"acc =$= 0",
				fmt.Sprintf("@(i < %d)@", bound),
				"acc =$= acc + 1",
				"@end@",
			)
			vm, _, err := execute(src)
			if err != nil {
				return false
			}
			i, _ := vm.Store().Get("i")
			acc, _ := vm.Store().Get("acc")
			return i == Int(bound) && acc == Int(bound)
		},
		gen.Int64Range(0, 200),
	))

	properties.Property("non-positive bound never runs the body", prop.ForAll(
		func(bound int64) bool {
			src := lines(
				fmt.Sprintf("@(i < %d)@", bound),
				`>_ "body"`,
				"@end@",
			)
			vm, out, err := execute(src)
			if err != nil {
				return false
			}
			i, _ := vm.Store().Get("i")
			return out == "" && i == Int(0)
		},
		gen.Int64Range(-1000, 0),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// 整数の四則演算は結果が整数なら Int、そうでなければ Float で保存される
func TestProperty_ArithmeticNarrowing(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("sum of integers is an integer", prop.ForAll(
		func(a, b int64) bool {
			vm, _, err := execute(fmt.Sprintf("r =$= %d + %d", a, b))
			if err != nil {
				return false
			}
			r, _ := vm.Store().Get("r")
			return r == Int(a+b)
		},
		gen.Int64Range(-1000000, 1000000),
		gen.Int64Range(-1000000, 1000000),
	))

	properties.Property("division by zero stores zero", prop.ForAll(
		func(a int64) bool {
			vm, _, err := execute(fmt.Sprintf("r =$= %d / 0", a))
			if err != nil {
				return false
			}
			r, _ := vm.Store().Get("r")
			return r == Int(0) && len(vm.Diagnostics()) == 1
		},
		gen.Int64Range(-1000000, 1000000),
	))

	properties.Property("division kind follows divisibility", prop.ForAll(
		func(a, b int64) bool {
			vm, _, err := execute(fmt.Sprintf("r =$= %d / %d", a, b))
			if err != nil {
				return false
			}
			r, _ := vm.Store().Get("r")
			if a%b == 0 {
				return r == Int(a/b)
			}
			return r.Kind() == KindFloat
		},
		gen.Int64Range(-10000, 10000),
		gen.Int64Range(1, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// 代入した値は出力時にそのまま展開される
func TestProperty_AssignThenPrint(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("integer round trips through interpolation", prop.ForAll(
		func(name string, value int64) bool {
			src := lines(
				fmt.Sprintf("%s =$= %d", name, value),
				fmt.Sprintf(">_ $%%%s%%", name),
			)
			_, out, err := execute(src)
			return err == nil && out == fmt.Sprintf("%d\n", value)
		},
		genName(),
		gen.Int64(),
	))

	properties.Property("string round trips through interpolation", prop.ForAll(
		func(name, value string) bool {
			src := lines(
				fmt.Sprintf(`%s =#= "%s"`, name, value),
				fmt.Sprintf(">_ [$%%%s%%]", name),
			)
			_, out, err := execute(src)
			return err == nil && out == "["+value+"]\n"
		},
		genName(),
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// 偽の条件ブロックの中身は、入れ子があっても一切実行されない
func TestProperty_FalseConditionalSkipsNestedBody(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("nothing inside a false block runs", prop.ForAll(
		func(depth int) bool {
			var b []string
			b = append(b, "?(1 == 2)?")
			for i := 0; i < depth; i++ {
				b = append(b, "?(1 == 1)?", `>_ "inner"`)
			}
			for i := 0; i < depth; i++ {
				b = append(b, "?end?")
			}
			b = append(b, `>_ "hidden"`, "?end?", `>_ "after"`)

			_, out, err := execute(lines(b...))
			return err == nil && out == "after\n"
		},
		gen.IntRange(0, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// どんな行を実行しても Run はエラーを返さず、パニックもしない
func TestProperty_RunNeverFails(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	fragments := []string{
		"x =$= 1", "x =$= x + 1", "y =$.$= 0.5", `s =#= "t"`, "b =&= +",
		">_ $%x%", "@(i < 3)@", "@end@", "?(x > 1)?", "?end?", "?(x)?",
		"r =$= x / 0", "garbage", "",
	}

	properties.Property("arbitrary line sequences run to completion", prop.ForAll(
		func(picks []int) bool {
			src := make([]string, len(picks))
			for i, p := range picks {
				src[i] = fragments[p]
			}
			_, _, err := execute(strings.Join(src, "\n"))
			return err == nil
		},
		gen.SliceOf(gen.IntRange(0, len(fragments)-1)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// 変数ストアは名前ごとに1つの値を持ち、最初の代入順を保つ
func TestProperty_StoreUpsert(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("last write wins and first insertion order is kept", prop.ForAll(
		func(names []string) bool {
			s := NewStore()
			var order []string
			last := make(map[string]int64)
			for i, name := range names {
				if !s.Has(name) {
					order = append(order, name)
				}
				s.Set(name, Int(i))
				last[name] = int64(i)
			}
			if s.Len() != len(order) {
				return false
			}
			for i, name := range s.Names() {
				if name != order[i] {
					return false
				}
				if v, _ := s.Get(name); v != Int(last[name]) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.OneConstOf("a", "b", "c", "d", "e")),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// 比較演算子は2文字のものが1文字の接頭辞より優先される
func TestProperty_ConditionMatchesCompare(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("literal conditions agree with Go comparisons", prop.ForAll(
		func(a, b int64, op string) bool {
			s := NewStore()
			got := EvaluateCondition(s, fmt.Sprintf("%d%s%d", a, op, b))
			var want bool
			switch op {
			case "==":
				want = a == b
			case "!=":
				want = a != b
			case ">=":
				want = a >= b
			case "<=":
				want = a <= b
			case ">":
				want = a > b
			case "<":
				want = a < b
			}
			return got == want
		},
		gen.Int64Range(-1000, 1000),
		gen.Int64Range(-1000, 1000),
		gen.OneConstOf("==", "!=", ">=", "<=", ">", "<"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
