package legendre_test

import (
	"fmt"

	"github.com/matzehuels/astroplot/pkg/legendre"
)

func ExampleP() {
	fmt.Printf("%.4f\n", legendre.P(2, 0, 0.5))
	fmt.Printf("%.4f\n", legendre.P(2, 2, 0.5))
	// Output:
	// -0.1250
	// 2.2500
}
