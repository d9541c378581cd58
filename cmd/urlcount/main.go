// Package main provides the entry point for the urlcount CLI.
//
// urlcount counts the unique URLs of one or more lists after normalizing
// them, and breaks the count down per .com host.
//
// Usage:
//
//	urlcount count urls.txt
//	cat urls.txt | urlcount count
//	urlcount count --html page.html
//
// See --help for all available options.
package main

func main() {
	Execute()
}
