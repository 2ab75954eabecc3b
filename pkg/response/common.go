package response

import (
	"errors"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/beanbocchi/portage/internal/model"
)

type CommonResponse struct {
	Data  any          `json:"data,omitempty"`
	Error *model.Error `json:"error"`
}

func write(w http.ResponseWriter, status int, body CommonResponse) error {
	data, err := sonic.Marshal(body)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(data)
	return err
}

// FromDTO writes a success envelope around the given payload.
func FromDTO(w http.ResponseWriter, status int, dto any) error {
	return write(w, status, CommonResponse{Data: dto})
}

// FromError writes an error envelope. Coded errors keep their code; everything
// else is wrapped under a generic one.
func FromError(w http.ResponseWriter, status int, err error) error {
	var coded model.Error
	if !errors.As(err, &coded) {
		coded = model.NewError("internal", err.Error())
	}
	return write(w, status, CommonResponse{Error: &coded})
}
