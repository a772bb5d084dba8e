// Package geo resolves attraction names to decimal coordinates.
//
// Coordinates are read from the encyclopedia page of the attraction, where they are
// published as sexagesimal text such as 59°19′40″N. Those pages are unstructured, so
// any page that does not carry a usable coordinate resolves to ErrUnavailable instead
// of failing the session.
package geo
