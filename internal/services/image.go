package services

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sabbir-ahmed/garage-server/internal/httperr"
	"github.com/sabbir-ahmed/garage-server/internal/storage"
	"github.com/sabbir-ahmed/garage-server/internal/utils"
)

const presignExpiry = 24 * time.Hour

// ImageService stores sell post product photos in object storage and hands
// out presigned download URLs. Objects are keyed by the post's id.
type ImageService struct {
	store     *minio.Client
	sellposts *mongo.Collection
}

func NewImageService(store *minio.Client, sellposts *mongo.Collection) *ImageService {
	return &ImageService{store: store, sellposts: sellposts}
}

// Upload attaches the multipart "image" field of the request to the given
// sell post. Only the post's owner may do so.
func (s *ImageService) Upload(c *fiber.Ctx, postID, ownerEmail string) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return httperr.BadRequest("invalid id")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var post bson.M
	err = s.sellposts.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return httperr.NotFound("sell post not found")
		}
		return httperr.Unavailable("service unavailable")
	}
	if owner, _ := post["email"].(string); owner != ownerEmail {
		return httperr.Forbidden("forbidden access")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return httperr.BadRequest("failed to retrieve image")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return httperr.BadRequest("failed to open image")
	}
	defer file.Close()

	objectName := objID.Hex()
	_, err = s.store.PutObject(ctx, storage.ImageBucket, objectName, file, fileHeader.Size,
		minio.PutObjectOptions{ContentType: fileHeader.Header.Get("Content-Type")})
	if err != nil {
		return httperr.Unavailable("service unavailable")
	}

	// Mark the post so batch lookups know a photo exists.
	_, err = s.sellposts.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{"photo": objectName}})
	if err != nil {
		return httperr.Unavailable("service unavailable")
	}

	return nil
}

// PresignedURL returns a temporary download URL for the post's photo.
func (s *ImageService) PresignedURL(ctx context.Context, postID string) (string, error) {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return "", httperr.BadRequest("invalid id")
	}

	var post bson.M
	err = s.sellposts.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", httperr.NotFound("sell post not found")
		}
		return "", httperr.Unavailable("service unavailable")
	}

	photo, ok := post["photo"].(string)
	if !ok || photo == "" {
		return "", httperr.NotFound("photo not found")
	}

	url, err := s.store.PresignedGetObject(ctx, storage.ImageBucket, photo, presignExpiry, nil)
	if err != nil {
		return "", httperr.Unavailable("service unavailable")
	}
	return url.String(), nil
}

// BatchPresignedURLs generates download URLs for every photo-carrying post
// owned by the given seller, one goroutine per post.
func (s *ImageService) BatchPresignedURLs(ctx context.Context, ownerEmail string) (map[string]string, error) {
	cursor, err := s.sellposts.Find(ctx, bson.M{"email": ownerEmail, "photo": bson.M{"$exists": true}})
	if err != nil {
		return nil, httperr.Unavailable("service unavailable")
	}
	defer cursor.Close(ctx)

	var posts []bson.M
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, httperr.Unavailable("service unavailable")
	}

	ids := make([]string, 0, len(posts))
	tasks := make([]utils.ParallelTask, 0, len(posts))
	for _, post := range posts {
		photo, ok := post["photo"].(string)
		if !ok || photo == "" {
			continue
		}
		objID, ok := post["_id"].(primitive.ObjectID)
		if !ok {
			continue
		}
		ids = append(ids, objID.Hex())
		tasks = append(tasks, func() (interface{}, error) {
			url, err := s.store.PresignedGetObject(ctx, storage.ImageBucket, photo, presignExpiry, nil)
			if err != nil {
				return nil, err
			}
			return url.String(), nil
		})
	}

	results, errs := utils.RunParallelTasks(tasks)

	urls := make(map[string]string, len(ids))
	for i, res := range results {
		if errs[i] != nil {
			continue
		}
		urls[ids[i]] = res.(string)
	}
	return urls, nil
}
