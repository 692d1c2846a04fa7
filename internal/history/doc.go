// Package history persists automation run outcomes.
//
// It currently supports:
//   - Appending one record per fire/manual start (outcome + classification)
//   - Reading the most recent records for the /history command
package history
