// Package utils provides small helpers shared by the transport and engine packages,
// mainly conversion of loosely typed JSON property values.
package utils
