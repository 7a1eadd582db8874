// Command dwheapctl replays allocation traces against a dwheap.Heap and
// reports checker findings, free-list statistics, and benchmark throughput.
package main

func main() {
	execute()
}
