package doc_test

import (
	"fmt"

	"github.com/matzehuels/pyfmt/pkg/doc"
)

func Example() {
	args := doc.Join(doc.Concat{doc.Text(","), doc.SoftLineOrSpace}, []doc.Doc{
		doc.Text("first_argument"),
		doc.Text("second_argument"),
	})
	call := doc.Concat{doc.Text("result = compute"), doc.Bracketed("(", args, ")")}

	wide, _ := doc.Render(call, doc.Options{Width: 88})
	narrow, _ := doc.Render(call, doc.Options{Width: 40})
	fmt.Println(wide)
	fmt.Println(narrow)
	// Output:
	// result = compute(first_argument, second_argument)
	// result = compute(
	//     first_argument,
	//     second_argument
	// )
}

func ExampleDump() {
	fmt.Print(doc.Dump(doc.NewGroup(doc.Text("a"), doc.SoftLine), nil))
	// Output:
	// group
	//   concat
	//     "a"
	//     soft_line
}
