// Package analysis estimates orbital periods from stored runs.
//
//   - [PowerSpectrum]: FFT magnitude of a sampled series
//   - [DominantPeriod]: period of the strongest frequency, refined between bins
//   - [OrbitalPeriods]: one period per body from its motion about the
//     center of mass
//
// Estimates are only as fine as the record allows: a run covering a few
// orbits resolves the period to roughly period/orbits.
package analysis
