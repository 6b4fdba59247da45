package layout_test

import (
	"fmt"
	"math"

	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/tree"
)

func ExampleRadial() {
	small := tree.NewNode("small")
	big := tree.NewNode("big")
	for _, s := range []string{"a", "b", "c"} {
		big.Children = append(big.Children, tree.NewNode(s))
	}
	f := tree.New(small, big)

	l, _ := layout.NewRadial().Layout(f)
	fmt.Printf("small: %.2fπ\n", l.Spans[small.ID].Width()/math.Pi)
	fmt.Printf("big:   %.2fπ\n", l.Spans[big.ID].Width()/math.Pi)
	// Output:
	// small: 0.50π
	// big:   1.50π
}
