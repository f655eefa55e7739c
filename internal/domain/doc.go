// Package domain contains the core entities of the application:
// generated tests, test results, recommended topics, flashcards and
// topic mastery. Entities validate themselves and carry no persistence
// or transport concerns.
package domain
