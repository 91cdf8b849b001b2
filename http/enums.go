package http

// Method is an HTTP request verb.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// String returns the verb as sent on the wire.
func (m Method) String() string {
	return string(m)
}

// ContentType is a MIME type commonly sent in the Content-Type header.
type ContentType string

const (
	ContentTypeJSON      ContentType = "application/json"
	ContentTypeForm      ContentType = "application/x-www-form-urlencoded"
	ContentTypeMultipart ContentType = "multipart/form-data"
	ContentTypeXML       ContentType = "text/xml"
)

// String returns the MIME type.
func (c ContentType) String() string {
	return string(c)
}

const (
	headerContentType = "Content-Type"
	headerCookie      = "Cookie"
	headerExpect      = "Expect"
	headerHost        = "Host"
)
