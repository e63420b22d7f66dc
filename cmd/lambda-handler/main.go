package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/omyshell/presto/src/orcweb"
)

var handler http.Handler

var dummyStatusCode int = -1

type recordingResponseWriter struct {
	headers http.Header
	buffer  bytes.Buffer
	status  int
}

func newRecordingResponseWriter() *recordingResponseWriter {
	return &recordingResponseWriter{
		headers: make(http.Header),
		status:  dummyStatusCode,
	}
}

func (rw *recordingResponseWriter) Header() http.Header {
	return rw.headers
}

func (rw *recordingResponseWriter) WriteHeader(statusCode int) {
	rw.status = statusCode
}

func (rw *recordingResponseWriter) Write(s []byte) (int, error) {
	if rw.status == dummyStatusCode {
		rw.status = http.StatusOK
	}
	return rw.buffer.Write(s)
}

func lambdaRequestToNative(req events.LambdaFunctionURLRequest) *http.Request {
	header := make(http.Header, len(req.Headers))
	for k, v := range req.Headers {
		header.Set(k, v)
	}
	return &http.Request{
		Method:        req.RequestContext.HTTP.Method,
		Proto:         req.RequestContext.HTTP.Protocol,
		RemoteAddr:    req.RequestContext.HTTP.SourceIP,
		Body:          io.NopCloser(strings.NewReader(req.Body)),
		ContentLength: int64(len(req.Body)),
		Header:        header,
		URL: &url.URL{
			Scheme:   "https",
			Host:     req.RequestContext.DomainName,
			Path:     req.RequestContext.HTTP.Path,
			RawPath:  req.RawPath,
			RawQuery: req.RawQueryString,
		},
	}
}

func (rw *recordingResponseWriter) toLambdaFunctionResponse() events.LambdaFunctionURLResponse {
	headers := make(map[string]string)
	for h, v := range rw.headers {
		headers[h] = strings.Join(v, ",")
	}
	return events.LambdaFunctionURLResponse{
		StatusCode:      rw.status,
		Body:            rw.buffer.String(),
		IsBase64Encoded: false,
		Headers:         headers,
	}
}

func HandleRequest(ctx context.Context, req events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	if handler == nil {
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return events.LambdaFunctionURLResponse{}, err
		}
		handler = orcweb.NewServer(s3.NewFromConfig(cfg)).Routes()
	}

	rw := newRecordingResponseWriter()
	handler.ServeHTTP(rw, lambdaRequestToNative(req))
	return rw.toLambdaFunctionResponse(), nil
}

func main() {
	lambda.Start(HandleRequest)
}
