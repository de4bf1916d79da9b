// koenote-proxy serves the koenote UI's API routes by forwarding them to the
// recording backend.
package main

import "github.com/koenote/koenote-proxy/pkg/cli"

func main() {
	cli.Execute()
}
