// Package opacity reads MESA Rosseland mean opacity tables and evaluates
// them along lines of constant density.
//
// A table gives log κ on a grid of log T and log R, where
// R = ρ / T6³ so that log R = log ρ − 3 log T + 18. Two tables are usually
// combined with a [Blend]: the low-temperature Ferguson et al. table below
// [DefaultSwitchLogT] and the OPAL table above it.
//
//	b, err := opacity.LoadBlend(os.Getenv("MESA_DIR"), "0.7", "0.02")
//	curves := opacity.Curves(b, opacity.DefaultLogRhos(), opacity.DefaultPoints)
package opacity
