// Command multialloc inspects backend configurations and drives workloads
// through the tagging allocator.
package main

func main() {
	execute()
}
