// Command opsctl runs notification refreshes, summaries, exports and account
// setup against the opsboard database without going through the HTTP API.
package main

func main() {
	Execute()
}
