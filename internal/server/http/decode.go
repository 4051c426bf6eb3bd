package http

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"mime"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/masterrol/internal/common"
	"github.com/dmitrijs2005/masterrol/internal/server/models"
	"github.com/dmitrijs2005/masterrol/internal/timex"
	"github.com/labstack/echo/v4"
)

// fields is a request body read as a flat object. Keeping values raw lets
// the handlers tell an omitted key from an explicit null.
type fields map[string]json.RawMessage

var jsonNull = []byte("null")

// readFields decodes a JSON object or form body. An empty body is an empty
// set of fields.
func readFields(c echo.Context) (fields, error) {
	req := c.Request()

	mediaType, _, _ := mime.ParseMediaType(req.Header.Get(echo.HeaderContentType))
	if mediaType == echo.MIMEApplicationForm || mediaType == echo.MIMEMultipartForm {
		values, err := c.FormParams()
		if err != nil {
			return nil, common.NewFieldError("", "cuerpo de formulario inválido")
		}
		f := make(fields, len(values))
		for k, v := range values {
			if len(v) == 0 {
				continue
			}
			raw, err := json.Marshal(v[0])
			if err != nil {
				return nil, err
			}
			f[k] = raw
		}
		return f, nil
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return fields{}, nil
	}

	var f fields
	if err := json.Unmarshal(body, &f); err != nil || f == nil {
		return nil, common.NewFieldError("", "se requiere un objeto JSON")
	}
	return f, nil
}

func (f fields) lookup(key string) (json.RawMessage, bool) {
	raw, ok := f[key]
	return raw, ok
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), jsonNull)
}

// str reads a string field. present is false when the key is missing,
// null is true for an explicit JSON null.
func (f fields) str(key string) (value string, present, null bool, err error) {
	raw, ok := f.lookup(key)
	if !ok {
		return "", false, false, nil
	}
	if isNull(raw) {
		return "", true, true, nil
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", true, false, common.NewFieldError(key, "debe ser texto")
	}
	return value, true, false, nil
}

// integer reads an integer given as a JSON number or a numeric string.
func (f fields) integer(key string) (value int64, present, null bool, err error) {
	raw, ok := f.lookup(key)
	if !ok {
		return 0, false, false, nil
	}
	if isNull(raw) {
		return 0, true, true, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, true, false, common.NewFieldError(key, "debe ser un número entero")
		}
		n = json.Number(strings.TrimSpace(s))
	}

	value, err = strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		return 0, true, false, common.NewFieldError(key, "debe ser un número entero")
	}
	return value, true, false, nil
}

// bodyID reads the session id of the deprecated body-addressed routes,
// "idsesion" first, then "id".
func (f fields) bodyID() (int64, error) {
	for _, key := range []string{"idsesion", "id"} {
		id, present, null, err := f.integer(key)
		if err != nil {
			return 0, err
		}
		if present && !null {
			return positiveID(key, id)
		}
	}
	return 0, common.NewFieldError("idsesion", "es obligatorio")
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, common.NewFieldError("idsesion", "debe ser un número entero positivo")
	}
	return positiveID("idsesion", id)
}

func positiveID(key string, id int64) (int64, error) {
	if id <= 0 {
		return 0, common.NewFieldError(key, "debe ser un número entero positivo")
	}
	return id, nil
}

// sessionInput builds a create request. numero_de_sesion defaults to 0;
// missing cronica or fecha are left empty for the service to reject.
func (f fields) sessionInput() (models.SessionInput, error) {
	var in models.SessionInput

	label, _, _, err := f.str("cronica")
	if err != nil {
		return in, err
	}
	in.Label = label

	number, _, _, err := f.integer("numero_de_sesion")
	if err != nil {
		return in, err
	}
	in.Number = number

	date, _, _, err := f.str("fecha")
	if err != nil {
		return in, err
	}
	in.Date = date

	summary, present, null, err := f.str("resumen")
	if err != nil {
		return in, err
	}
	if present && !null {
		in.Summary = &summary
	}

	return in, nil
}

// sessionPatch builds a partial update from the keys actually present.
// Unknown keys, including iduser, are ignored.
func (f fields) sessionPatch() (models.SessionPatch, error) {
	var p models.SessionPatch

	label, present, null, err := f.str("cronica")
	if err != nil {
		return p, err
	}
	if null {
		return p, common.NewFieldError("cronica", "no puede ser nulo")
	}
	if present {
		p.Label = &label
	}

	number, present, null, err := f.integer("numero_de_sesion")
	if err != nil {
		return p, err
	}
	if null {
		return p, common.NewFieldError("numero_de_sesion", "no puede ser nulo")
	}
	if present {
		p.Number = &number
	}

	date, present, null, err := f.str("fecha")
	if err != nil {
		return p, err
	}
	if null {
		return p, common.NewFieldError("fecha", "no puede ser nulo")
	}
	if present {
		d, err := timex.ParseDate(date)
		if err != nil {
			return p, common.NewFieldError("fecha", "no es una fecha válida")
		}
		p.Date = &d
	}

	summary, present, null, err := f.str("resumen")
	if err != nil {
		return p, err
	}
	if present {
		p.Summary = &sql.NullString{String: summary, Valid: !null}
	}

	return p, nil
}
