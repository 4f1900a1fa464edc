package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// Contraintes d'upload (mêmes règles que l'ancien back)
const MaxImageSize = 5 * 1024 * 1024 // 5MB

// Préfixe public sous lequel les images sont servies
const UploadsPrefix = "/uploads/"

var allowedImageExts = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

var ErrImageTooLarge = errors.New("image trop volumineuse (max 5MB)")
var ErrImageBadType = errors.New("seules les images jpeg, jpg, png, gif et webp sont acceptées")

// ImageStore — stockage des images de plats dans MinIO
type ImageStore struct {
	client *minio.Client
	bucket string
}

func NewImageStore(client *minio.Client, bucket string) *ImageStore {
	return &ImageStore{client: client, bucket: bucket}
}

// Upload valide puis stocke une image et retourne son URL relative /uploads/<nom>.
// Le nom est généré côté serveur, jamais repris du client.
func (s *ImageStore) Upload(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if s == nil || s.client == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	if file.Size > MaxImageSize {
		return "", ErrImageTooLarge
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	contentType, ok := allowedImageExts[ext]
	if !ok {
		return "", ErrImageBadType
	}
	if declared := file.Header.Get("Content-Type"); declared != "" && !strings.HasPrefix(declared, "image/") {
		return "", ErrImageBadType
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	objectName := "menu-" + uuid.NewString() + ext
	_, err = s.client.PutObject(ctx, s.bucket, objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}

	return UploadsPrefix + objectName, nil
}

// Remove supprime l'objet référencé par une URL /uploads/<nom>.
// Best effort : une image orpheline vaut mieux qu'une mutation bloquée.
func (s *ImageStore) Remove(ctx context.Context, imageURL string) {
	if s == nil || s.client == nil || imageURL == "" {
		return
	}
	objectName := strings.TrimPrefix(imageURL, UploadsPrefix)
	if objectName == "" || objectName == imageURL {
		return
	}
	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		log.Printf("⚠️ Suppression image %s échouée: %v", objectName, err)
	}
}

// Open ouvre un objet stocké pour le streaming sous /uploads/:filename
func (s *ImageStore) Open(ctx context.Context, objectName string) (*minio.Object, minio.ObjectInfo, error) {
	if s == nil || s.client == nil {
		return nil, minio.ObjectInfo{}, fmt.Errorf("MinIO non initialisé")
	}
	obj, err := s.client.GetObject(ctx, s.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, minio.ObjectInfo{}, err
	}
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, minio.ObjectInfo{}, err
	}
	return obj, info, nil
}
