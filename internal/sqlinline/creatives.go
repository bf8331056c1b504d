package sqlinline

const QInsertCreative = `--sql b57c7ce3-17f1-4c0f-8120-e788ad23ee16
insert into creatives(id, project_id, variation_index, image_ref, caption, prompt, style, generated_at)
values ($1::uuid, $2::uuid, $3::int, $4::text, $5::text, $6::text, $7::text, $8::timestamptz);
`

const QListCreativesByProject = `--sql 3863d3f1-8dcb-48fe-80f5-faa7cae0face
select id, project_id, variation_index, image_ref, caption, prompt, style, generated_at
from creatives
where project_id = $1::uuid
order by variation_index asc;
`
