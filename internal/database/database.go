package database

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// --- Variables Globales ---
var (
	MongoClient *mongo.Client
	MongoDB     *mongo.Database
	Redis       *redis.Client
	MinIO       *minio.Client
)

// ConnectDatabases initialise MongoDB (obligatoire), Redis et MinIO (optionnels)
func ConnectDatabases() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	connectMongo(ctx)
	connectRedis(ctx)
	connectMinIO(ctx)

	log.Println("✅ Stockages initialisés")
}

// =============================================
// MONGODB
// =============================================

func connectMongo(ctx context.Context) {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGODB_DATABASE")
	if dbName == "" {
		dbName = "restaurant"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatal("❌ Erreur connexion MongoDB:", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("❌ MongoDB injoignable:", err)
	}

	MongoClient = client
	MongoDB = client.Database(dbName)
	log.Println("✅ Connecté à MongoDB :", dbName)
}

// EnsureIndexes crée les index au démarrage.
// L'unicité de orderNumber est le seul garde-fou contre les collisions de numéros.
func EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	_, err := MongoDB.Collection("merchants").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return err
	}

	_, err = MongoDB.Collection("orders").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "orderNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "merchantId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return err
	}

	_, err = MongoDB.Collection("menu_items").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "merchantId", Value: 1}},
	})
	return err
}

// HealthCheck vérifie la connectivité du stockage principal
func HealthCheck(ctx context.Context) error {
	if MongoClient == nil {
		return mongo.ErrClientDisconnected
	}
	return MongoClient.Ping(ctx, nil)
}

// =============================================
// REDIS (rate limiting + pub/sub commandes)
// =============================================

func connectRedis(ctx context.Context) {
	addr := os.Getenv("REDIS_HOST")
	if addr == "" {
		log.Println("⚠️ REDIS_HOST absent — rate limiting et flux temps réel désactivés")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Println("⚠️ Redis injoignable — on continue sans:", err)
		return
	}

	Redis = client
	log.Println("✅ Connecté à Redis")
}

// =============================================
// MINIO (images des plats)
// =============================================

func connectMinIO(ctx context.Context) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		log.Println("⚠️ MINIO_ENDPOINT absent — upload d'images désactivé")
		return
	}

	accessKey := os.Getenv("MINIO_ACCESS_KEY")
	secretKey := os.Getenv("MINIO_SECRET_KEY")
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		log.Println("⚠️ MinIO non configuré :", err)
		return
	}

	bucketName := os.Getenv("MINIO_BUCKET")
	if bucketName == "" {
		bucketName = "uploads"
	}
	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		log.Println("⚠️ Erreur vérification bucket MinIO:", err)
		return
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			log.Println("⚠️ Erreur création bucket MinIO:", err)
			return
		}
		log.Println("🪣 Bucket créé :", bucketName)
	}

	MinIO = client
	log.Println("✅ Connecté à MinIO :", endpoint)
}
