package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"surgicare-core/internal/infrastructure/database/mongodb"
)

const artifactsCollection = "prescription_artifacts"

// StoredFile - artefact de prescription déposé par le médecin
type StoredFile struct {
	ID         string    `bson:"_id" json:"id"`
	Filename   string    `bson:"filename" json:"filename"`
	MimeType   string    `bson:"mime_type" json:"mime_type"`
	Content    []byte    `bson:"content" json:"-"`
	UploadedAt time.Time `bson:"uploaded_at" json:"uploaded_at"`
}

// PublicURL retourne l'URL publique de service du fichier
func (f *StoredFile) PublicURL() string {
	return fmt.Sprintf("/api/v1/files/%s", f.ID)
}

// BlobStoreService stocke les artefacts de prescription dans MongoDB et les
// sert par URL publique. Contrairement aux autres collaborateurs, un échec de
// dépôt remonte en erreur : l'artefact fait partie du dossier clinique.
type BlobStoreService struct {
	mongo *mongodb.Client
}

func NewBlobStoreService(mongo *mongodb.Client) *BlobStoreService {
	return &BlobStoreService{mongo: mongo}
}

// Upload dépose un fichier et retourne sa référence publique
func (s *BlobStoreService) Upload(ctx context.Context, filename, mimeType string, content []byte) (*StoredFile, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("empty file content for %s", filename)
	}

	file := &StoredFile{
		ID:         uuid.NewString(),
		Filename:   filename,
		MimeType:   mimeType,
		Content:    content,
		UploadedAt: time.Now(),
	}

	if _, err := s.mongo.Collection(artifactsCollection).InsertOne(ctx, file); err != nil {
		return nil, fmt.Errorf("failed to store artifact %s: %w", filename, err)
	}

	fmt.Printf("[FILES] ✅ Artefact déposé - %s (%d octets)\n", filename, len(content))
	return file, nil
}

// Get récupère un fichier par identifiant
func (s *BlobStoreService) Get(ctx context.Context, id string) (*StoredFile, error) {
	var file StoredFile
	err := s.mongo.Collection(artifactsCollection).
		FindOne(ctx, bson.M{"_id": id}).
		Decode(&file)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("artifact not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load artifact %s: %w", id, err)
	}

	return &file, nil
}
