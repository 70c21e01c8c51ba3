package validators

import "go.mongodb.org/mongo-driver/bson"

var NotificationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user_id",
			"title",
			"body",
			"type",
			"read",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"title": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 200,
			},

			"body": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 1000,
			},

			"type": bson.M{
				"bsonType": "string",
				"enum": []string{
					"booking_pending",
					"booking_approved",
					"booking_rejected",
					"general",
				},
			},

			"read": bson.M{
				"bsonType": "bool",
			},

			"data": bson.M{
				"bsonType": "object",
				"additionalProperties": bson.M{
					"bsonType": "string",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var PushSubscriptionValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user_id",
			"endpoint",
			"p256dh",
			"auth",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"endpoint": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"p256dh": bson.M{
				"bsonType": "string",
			},

			"auth": bson.M{
				"bsonType": "string",
			},

			"user_agent": bson.M{
				"bsonType": "string",
			},
		},
	},
}
