// Package testutil contains helper builders and stub collaborators used
// across tests to reduce boilerplate when constructing turns, documents and
// pipeline runs. They are not intended for production usage.
package testutil
