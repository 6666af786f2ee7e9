// Command hff reports lensing parameters of the Hubble Frontier Fields
// clusters. Lensing backends register themselves from their init functions;
// link one in with a blank import here.
package main

import "github.com/afonsov/gohff/cmd"

func main() {
	cmd.Execute()
}
