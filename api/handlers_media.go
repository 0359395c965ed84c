package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"vitrine/media"
)

// multipartSlack cobre os cabeçalhos do multipart além do arquivo.
const multipartSlack = 64 << 10

// handleImageUpload recebe o campo "file" e devolve a imagem comprimida como
// data URL, pronta para ir num campo do documento.
func (s *Server) handleImageUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes+multipartSlack)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.fail(w, r, err)
			return
		}
		writeJSONError(w, http.StatusBadRequest, "expected multipart/form-data with a file field")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	res, err := media.Compress(file, s.opts.Media)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.log.Info("imagem comprimida",
		zap.String("filename", hdr.Filename),
		zap.Int64("input_bytes", hdr.Size),
		zap.Int("output_bytes", res.Bytes),
		zap.Int("width", res.Width),
		zap.Int("quality", res.Quality),
	)
	writeJSON(w, http.StatusOK, res)
}
