// Package http carries RPC frames over plain HTTP.
//
// The server transport listens on the configured endpoint and accepts
// POST /{adapterId} requests. The request body is the serialized message, the
// response body the serialized answer of the handler registered by the RPC
// server. Every request is logged at debug level with its status and duration.
//
// The client transport sends each request to the next endpoint of
// ClientTransportConfig.Endpoints (round robin, endpoints must include the
// scheme, e.g. http://localhost:8080). A request is tried at most RetryCount
// times, each attempt on the next endpoint. The client timeout is
// ClientConfig.TimeoutSecond.
//
// The socket and tcp options of the transport configuration are ignored, the
// connection handling is left to net/http.
package http
