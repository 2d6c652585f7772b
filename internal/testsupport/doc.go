// Package testsupport holds helpers shared by tests: configs whose external
// tools are shell stubs, and fixture files.
package testsupport
