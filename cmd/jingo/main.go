// Command jingo is the Jingo language front end: tokenize, parse, format
// and explore .jno sources.
package main

func main() {
	Execute()
}
