// Package inference provides model-backed detector adapters that call a
// model server over HTTP.
//
// One Client is shared by all adapters of a process. It throttles calls with
// a token bucket and bounds the number of requests in flight, so batch runs
// cannot flood the server.
//
// Endpoints (JSON bodies, images as base64 PNG):
//
//	POST /v1/arrows     arrow detection
//	POST /v1/unified    diagram, label and condition detection
//	POST /v1/recognise  structure recognition of one diagram crop
//	POST /v1/roles      reaction step inference
//	POST /v1/upsample   super-resolution
//	GET  /v1/models/{name}  readiness
package inference
