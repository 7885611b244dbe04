/*
Package domain contains the records produced around payload checks.

It is kept free of I/O; storage lives behind the interfaces in package ports.

# Key Entities

  - Rejection: a payload that failed a named checker, with the failure code and field.
*/
package domain
