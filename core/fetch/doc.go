// Package fetch reads collections from a platform instance.
//
// All walks limit/offset pagination until the reported total is reached,
// List and One decode single responses, and Details enriches records with a
// bounded number of concurrent detail requests.
package fetch
