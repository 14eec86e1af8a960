// Package dataset serializes records, queries and key-value pairs.
//
// # File Formats
//
// Data files carry a header naming each column, then one record per row:
//
//	v1,v2,v3,v4,s
//	1.23456,7.65432,0.00012,9.99999,50.12345
//
// Query files add the result bound k, the scalar window and the opaque
// operational parameter O:
//
//	qv1,qv2,qv3,qv4,k,Smin,Smax,O
//	3.14159,2.71828,1.41421,1.73205,10,49.93733,50.06267,1000
//
// Key-value dumps have no header and one whitespace-separated pair per line.
//
// Every float in a file is formatted with the same Format.
package dataset
