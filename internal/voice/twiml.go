package voice

import (
	"encoding/xml"
	"net/http"
)

type twimlResponse struct {
	XMLName  xml.Name  `xml:"Response"`
	Gather   *gather   `xml:"Gather,omitempty"`
	Redirect *redirect `xml:"Redirect,omitempty"`
	Message  string    `xml:"Message,omitempty"`
}

type gather struct {
	Input         string `xml:"input,attr"`
	Action        string `xml:"action,attr"`
	Method        string `xml:"method,attr"`
	SpeechTimeout string `xml:"speechTimeout,attr"`
	Say           say    `xml:"Say"`
}

type say struct {
	Voice string `xml:"voice,attr,omitempty"`
	Text  string `xml:",chardata"`
}

type redirect struct {
	Method string `xml:"method,attr"`
	URL    string `xml:",chardata"`
}

// gatherResponse speaks text and listens for the next utterance. If the
// caller says nothing the call loops back to action.
func gatherResponse(text, action, voice string) twimlResponse {
	return twimlResponse{
		Gather: &gather{
			Input:         "speech",
			Action:        action,
			Method:        http.MethodPost,
			SpeechTimeout: "auto",
			Say:           say{Voice: voice, Text: text},
		},
		Redirect: &redirect{Method: http.MethodPost, URL: action},
	}
}

func messageResponse(text string) twimlResponse {
	return twimlResponse{Message: text}
}

func writeTwiML(w http.ResponseWriter, status int, resp twimlResponse) {
	body, err := xml.Marshal(resp)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(xml.Header))
	_, _ = w.Write(body)
}
