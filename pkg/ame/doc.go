// Package ame reads the Atomic Mass Evaluation table (AME2016 mass16.txt).
//
// The file is a fixed-width text table preceded by a 39-line preamble.
// Values the evaluators could only estimate carry a '#' in place of the
// decimal point; [Parse] keeps the number and sets [Nuclide.Estimated].
// Values that cannot be computed are written as '*' and become NaN.
//
//	t, err := ame.Parse(f)
//	fe, err := t.Lookup("Fe", 56)
//	fmt.Printf("%.3f MeV\n", fe.BindingPerNucleon/1e3)
package ame
