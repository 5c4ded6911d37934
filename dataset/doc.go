// Package dataset handles museum catalog dumps: filtering raw dumps down
// to objects with images, exporting them as CSV, and loading them into
// artwork storage.
package dataset
