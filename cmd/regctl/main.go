// Command regctl lists, creates, writes, deletes, exports and imports
// registry keys.
package main

func main() {
	execute()
}
