package labels_test

import (
	"fmt"

	"github.com/matzehuels/statboard/pkg/labels"
)

func ExamplePlace() {
	points := []labels.Point{{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 20, Y: 0}}
	names := []string{"BUF", "KC", "SF"}

	res, err := labels.Place(points, names, labels.DefaultConfig())
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("%d labels, converged=%v, passes=%d\n", len(res.Positions), res.Converged, res.Passes)
	fmt.Println(res.Positions[1].Label, res.Positions[1].Y > 10.39)
	// Output:
	// 3 labels, converged=true, passes=1
	// KC true
}

func ExamplePlace_mismatch() {
	_, err := labels.Place([]labels.Point{{X: 1, Y: 2}}, nil, labels.DefaultConfig())
	fmt.Println(err)
	// Output: INVALID_INPUT: points and labels differ in length: 1 != 0
}
