// Package chart builds the two-dimensional figures with gonum/plot: the
// binding-energy curve, opacity curves and the BiSON globe.
//
// Figures implement [Figure] and are written with [Save], which picks the
// output format from the file extension.
package chart
