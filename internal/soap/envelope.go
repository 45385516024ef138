package soap

import (
	"encoding/xml"
	"errors"
	"strings"
)

const (
	envelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"
	serviceNS  = "http://localhost:8080/soap"
)

// requestEnvelope captures the raw body of an inbound SOAP request;
// the operation payload is decoded in a second pass once the
// operation name is known.
type requestEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		Inner []byte `xml:",innerxml"`
	} `xml:"Body"`
}

// decodeRequest parses a SOAP envelope and returns the operation name
// (with any "Request" suffix stripped) plus the raw payload element.
func decodeRequest(raw []byte) (op string, payload []byte, err error) {
	var env requestEnvelope
	if err := xml.Unmarshal(raw, &env); err != nil {
		return "", nil, errors.New("malformed SOAP envelope")
	}
	dec := xml.NewDecoder(strings.NewReader(string(env.Body.Inner)))
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", nil, errors.New("empty SOAP body")
		}
		if start, ok := tok.(xml.StartElement); ok {
			op = strings.TrimSuffix(start.Name.Local, "Request")
			return op, env.Body.Inner, nil
		}
	}
}

type responseEnvelope struct {
	XMLName xml.Name `xml:"soap:Envelope"`
	SoapNS  string   `xml:"xmlns:soap,attr"`
	TNS     string   `xml:"xmlns:tns,attr"`
	Body    responseBody
}

type responseBody struct {
	XMLName xml.Name `xml:"soap:Body"`
	Payload any
}

// encodeResponse wraps an operation response payload in a SOAP
// envelope.
func encodeResponse(payload any) ([]byte, error) {
	env := responseEnvelope{
		SoapNS: envelopeNS,
		TNS:    serviceNS,
		Body:   responseBody{Payload: payload},
	}
	out, err := xml.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

type fault struct {
	XMLName xml.Name `xml:"soap:Fault"`
	Code    string   `xml:"faultcode"`
	Message string   `xml:"faultstring"`
}

// encodeFault builds a client fault for transport-level problems
// (unparseable envelope, unknown operation). Application errors never
// fault; they travel inline as success/error fields.
func encodeFault(code, message string) []byte {
	out, _ := encodeResponse(fault{Code: code, Message: message})
	return out
}
