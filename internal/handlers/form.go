package handlers

import (
	"Classifieds/internal/service"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
)

const multipartMemory = 8 << 20

// parseForm разбирает multipart/form-data или x-www-form-urlencoded.
func parseForm(r *http.Request) error {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "multipart/form-data" {
		return r.ParseMultipartForm(multipartMemory)
	}
	return r.ParseForm()
}

func itemForm(r *http.Request) service.ItemForm {
	return service.ItemForm{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Price:       r.PostFormValue("price"),
		Phone:       r.PostFormValue("phone"),
		Group:       r.PostFormValue("group"),
		IsActive:    r.PostFormValue("is_active"),
	}
}

// imageUploads читает слоты image_1..image_N. Пустой слот даёт пустую запись.
// Из файла читается не больше maxBytes+1 байт: этого достаточно, чтобы валидатор отклонил слишком большой файл.
func imageUploads(r *http.Request, slots int, maxBytes int64) ([]service.ImageUpload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	uploads := make([]service.ImageUpload, 0, slots)
	for i := 1; i <= slots; i++ {
		headers := r.MultipartForm.File[fmt.Sprintf("image_%d", i)]
		if len(headers) == 0 {
			uploads = append(uploads, service.ImageUpload{})
			continue
		}
		f, err := headers[0].Open()
		if err != nil {
			return nil, fmt.Errorf("open upload: %w", err)
		}
		data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("read upload: %w", err)
		}
		uploads = append(uploads, service.ImageUpload{Filename: headers[0].Filename, Data: data})
	}
	return uploads, nil
}

// removeIDs возвращает изображения, отмеченные на удаление (remove_image).
func removeIDs(r *http.Request) []int64 {
	var ids []int64
	for _, raw := range r.PostForm["remove_image"] {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}
