package model

import (
	"encoding/json"
	"fmt"
)

// MessageType discriminates the tagged wire messages. The tag travels
// in the "type" field alongside the variant's own fields.
type MessageType string

const (
	// Client -> server
	MessageTypePrint       MessageType = "print"
	MessageTypeGetPrinters MessageType = "get_printers"
	MessageTypeGetStatus   MessageType = "get_status"
	MessageTypePing        MessageType = "ping"

	// Server -> client
	MessageTypePrintResult MessageType = "print_result"
	MessageTypePrinters    MessageType = "printers"
	MessageTypeStatus      MessageType = "status"
	MessageTypePong        MessageType = "pong"
	MessageTypeError       MessageType = "error"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"

	ErrorCodeInvalidMessage = "INVALID_MESSAGE"
	ErrorCodePrinterError   = "PRINTER_ERROR"
)

// --- Client Messages ---

// PrintRequest carries one print job. The id is an opaque correlation
// token echoed back in the result; uniqueness is not enforced.
type PrintRequest struct {
	ID           string          `json:"id"`
	TemplateType string          `json:"template_type"`
	Template     string          `json:"template"`
	Data         json.RawMessage `json:"data"`
	Printer      string          `json:"printer,omitempty"`
	Options      PrintOptions    `json:"options"`
}

// PrintOptions defaults to one copy. Zero copies is well-formed and
// results in no spool calls.
type PrintOptions struct {
	Copies    uint32  `json:"copies"`
	PaperSize *string `json:"paper_size,omitempty"`
}

func DefaultPrintOptions() PrintOptions {
	return PrintOptions{Copies: 1}
}

// ClientMessage is one decoded inbound message. Print is set only for
// the print variant.
type ClientMessage struct {
	Type  MessageType
	Print *PrintRequest
}

// DecodeClientMessage parses one inbound text frame. Malformed JSON,
// an unknown type tag, or a print request missing required fields all
// fail decoding; the caller answers with an INVALID_MESSAGE error
// instead of closing the connection.
func DecodeClientMessage(data []byte) (*ClientMessage, error) {
	var head struct {
		Type MessageType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("invalid message format: %w", err)
	}

	switch head.Type {
	case MessageTypePrint:
		req, err := decodePrintRequest(data)
		if err != nil {
			return nil, err
		}
		return &ClientMessage{Type: MessageTypePrint, Print: req}, nil
	case MessageTypeGetPrinters, MessageTypeGetStatus, MessageTypePing:
		return &ClientMessage{Type: head.Type}, nil
	default:
		return nil, fmt.Errorf("unknown message type: %q", head.Type)
	}
}

func decodePrintRequest(data []byte) (*PrintRequest, error) {
	// Pointer fields distinguish absent from empty for the required
	// part of the shape; printer and options fall back to defaults.
	var raw struct {
		ID           *string         `json:"id"`
		TemplateType *string         `json:"template_type"`
		Template     *string         `json:"template"`
		Data         json.RawMessage `json:"data"`
		Printer      string          `json:"printer"`
		Options      json.RawMessage `json:"options"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid print request: %w", err)
	}

	for field, present := range map[string]bool{
		"id":            raw.ID != nil,
		"template_type": raw.TemplateType != nil,
		"template":      raw.Template != nil,
		"data":          raw.Data != nil,
	} {
		if !present {
			return nil, fmt.Errorf("print request missing field %q", field)
		}
	}

	opts := DefaultPrintOptions()
	if len(raw.Options) > 0 {
		if err := json.Unmarshal(raw.Options, &opts); err != nil {
			return nil, fmt.Errorf("invalid print options: %w", err)
		}
	}

	return &PrintRequest{
		ID:           *raw.ID,
		TemplateType: *raw.TemplateType,
		Template:     *raw.Template,
		Data:         raw.Data,
		Printer:      raw.Printer,
		Options:      opts,
	}, nil
}

// --- Server Messages ---

// PrintResult reports a job outcome; ID echoes the request id.
type PrintResult struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// PrinterInfo is one enumerated printer. Names are unique within a
// snapshot and at most one entry is the default.
type PrinterInfo struct {
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
	Status    string `json:"status"`
}

type PrintersResponse struct {
	Printers []PrinterInfo `json:"printers"`
}

type StatusResponse struct {
	Status      string `json:"status"`
	Connections int    `json:"connections"`
	Version     string `json:"version"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func MarshalPrintResult(r PrintResult) ([]byte, error) {
	return json.Marshal(struct {
		Type MessageType `json:"type"`
		PrintResult
	}{MessageTypePrintResult, r})
}

func MarshalPrinters(printers []PrinterInfo) ([]byte, error) {
	if printers == nil {
		printers = []PrinterInfo{}
	}
	return json.Marshal(struct {
		Type MessageType `json:"type"`
		PrintersResponse
	}{MessageTypePrinters, PrintersResponse{Printers: printers}})
}

func MarshalStatus(s StatusResponse) ([]byte, error) {
	return json.Marshal(struct {
		Type MessageType `json:"type"`
		StatusResponse
	}{MessageTypeStatus, s})
}

func MarshalPong() ([]byte, error) {
	return json.Marshal(struct {
		Type MessageType `json:"type"`
	}{MessageTypePong})
}

func MarshalError(code, message string) ([]byte, error) {
	return json.Marshal(struct {
		Type MessageType `json:"type"`
		ErrorResponse
	}{MessageTypeError, ErrorResponse{Code: code, Message: message}})
}
