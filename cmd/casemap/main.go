// Command casemap encodes and decodes case-management entities and manages
// the local capture store.
package main

import "github.com/mesh-intelligence/casemap/internal/cli"

func main() {
	cli.Execute()
}
