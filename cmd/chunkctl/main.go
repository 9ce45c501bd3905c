// Command chunkctl is the CLI entrypoint for the chunking service: it
// submits files or directories as a batch job and reports the resulting
// chunk counts, and exposes profile/chunker introspection.
package main

import "github.com/cortexchunk/chunker/internal/clicmds"

func main() {
	clicmds.Execute()
}
