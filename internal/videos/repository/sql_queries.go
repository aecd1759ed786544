package repository

const (
	createVideoQuery = `INSERT INTO videos (user_id, file_key, file_name, file_size, s3_key, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING video_id, user_id, file_key, file_name, file_size, s3_key, uploaded_at`

	getVideoByKeyQuery = `SELECT video_id, user_id, file_key, file_name, file_size, s3_key, uploaded_at
		FROM videos
		WHERE user_id = $1 AND file_key = $2`

	getVideosCountQuery = `SELECT COUNT(video_id) FROM videos WHERE user_id = $1`

	getVideosQuery = `SELECT video_id, user_id, file_key, file_name, file_size, s3_key, uploaded_at
		FROM videos
		WHERE user_id = $1
		ORDER BY uploaded_at DESC
		OFFSET $2 LIMIT $3`

	deleteVideoQuery = `DELETE FROM videos WHERE user_id = $1 AND file_key = $2`
)
